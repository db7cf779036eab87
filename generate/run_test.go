package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"themec/config"
	"themec/state"
	"themec/theme"
)

func setupRunEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t)

	st := theme.NewStore(env.Log)
	st.Define("light", theme.Map{"color": "black", "background": "white"})
	st.Define("dark", theme.Map{"color": "white"})
	st.SetDefault(theme.Default{Name: "light"})
	env.Store = st
	env.NoDirs = true
	return ctx, env
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

const runTestInput = `@import "fonts.css";

@themed {
	body {
		color: theme(color);
		background: theme(background);
	}
}

footer { color: gray; }
`

const runTestWant = `@import url("fonts.css");

body {
  background: white;
  color: black;
}

[data-theme="dark"] body {
  background: white;
  color: white;
}

footer {
  color: gray;
}
`

func TestProcessSheet(t *testing.T) {
	ctx, env := setupRunEnv(t)

	src := writeSource(t, t.TempDir(), "main.css", runTestInput)
	dst := t.TempDir()

	if err := processSheet(ctx, src, "main.css", dst, env.Log); err != nil {
		t.Fatalf("processSheet() failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "main.css"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != runTestWant {
		t.Errorf("unexpected output:\ngot:\n%s\nwant:\n%s", got, runTestWant)
	}
}

func TestProcessSheet_CompactMode(t *testing.T) {
	ctx, env := setupRunEnv(t)
	env.Cfg.Generator.Mode = config.OutputModeCompact

	src := writeSource(t, t.TempDir(), "main.css", `footer { color: gray; margin: 0; }`)
	dst := t.TempDir()

	if err := processSheet(ctx, src, "main.css", dst, env.Log); err != nil {
		t.Fatalf("processSheet() failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "main.css"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "footer{color:gray;margin:0;}\n"
	if string(got) != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestProcessSheet_ExistingOutput(t *testing.T) {
	ctx, env := setupRunEnv(t)

	src := writeSource(t, t.TempDir(), "main.css", runTestInput)
	dst := t.TempDir()
	writeSource(t, dst, "main.css", "stale")

	if err := processSheet(ctx, src, "main.css", dst, env.Log); err == nil {
		t.Fatal("expected error for existing output file")
	}

	env.Overwrite = true
	if err := processSheet(ctx, src, "main.css", dst, env.Log); err != nil {
		t.Fatalf("processSheet() with overwrite failed: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dst, "main.css"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != runTestWant {
		t.Error("existing output was not replaced")
	}
}

func TestResolveDestination(t *testing.T) {
	_, env := setupRunEnv(t)

	configured := t.TempDir()
	env.Cfg.Generator.Destination = configured

	// configured destination applies when no argument is given
	got, err := resolveDestination("", env)
	if err != nil {
		t.Fatalf("resolveDestination() failed: %v", err)
	}
	want, err := filepath.Abs(configured)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if got != want {
		t.Errorf("resolveDestination() = %q, want configured %q", got, want)
	}

	// explicit argument wins over configuration
	explicit := t.TempDir()
	got, err = resolveDestination(explicit, env)
	if err != nil {
		t.Fatalf("resolveDestination() failed: %v", err)
	}
	if want, _ = filepath.Abs(explicit); got != want {
		t.Errorf("resolveDestination() = %q, want explicit %q", got, want)
	}

	// neither falls back to the working directory
	env.Cfg.Generator.Destination = ""
	got, err = resolveDestination("", env)
	if err != nil {
		t.Fatalf("resolveDestination() failed: %v", err)
	}
	if wd, _ := os.Getwd(); got != wd {
		t.Errorf("resolveDestination() = %q, want working directory %q", got, wd)
	}
}

func TestProcessDir(t *testing.T) {
	ctx, env := setupRunEnv(t)

	srcDir := t.TempDir()
	writeSource(t, srcDir, "one.css", `p { color: red; }`)
	writeSource(t, srcDir, "two.css", `q { color: blue; }`)
	writeSource(t, srcDir, "notes.txt", "not a stylesheet")
	dst := t.TempDir()

	if err := process(ctx, srcDir, dst, env.Log); err != nil {
		t.Fatalf("process() failed: %v", err)
	}

	for _, name := range []string{"one.css", "two.css"} {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dst, "notes.txt")); !os.IsNotExist(err) {
		t.Error("non-stylesheet input was processed")
	}
}
