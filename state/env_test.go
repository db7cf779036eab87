package state

import (
	"context"
	"testing"
)

func TestEnvFromContext(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.Uptime() < 0 {
		t.Error("Uptime() went backwards")
	}

	// same env on repeated lookups
	if EnvFromContext(ctx) != env {
		t.Error("EnvFromContext() returned different instances")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for context without env")
		}
	}()
	EnvFromContext(context.Background())
}
