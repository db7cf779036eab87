package theme_test

import (
	"testing"

	"themec/theme"
)

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		token       string
		replacement string
		want        string
	}{
		{"selector template", `[data-theme="{$}"]`, "{$}", "dark", `[data-theme="dark"]`},
		{"multiple occurrences", "a{$}b{$}c", "{$}", "-", "a-b-c"},
		{"token absent", "body { color: red }", "{$}", "dark", "body { color: red }"},
		{"replacement contains token", "aXbXc", "X", "XX", "aXXbXXc"},
		{"replacement equals token", "aXb", "X", "X", "aXb"},
		{"token at boundaries", "{$}middle{$}", "{$}", "t", "tmiddlet"},
		{"empty replacement", "a{$}b", "{$}", "", "ab"},
		{"empty token", "abc", "", "x", "abc"},
		{"empty template", "", "{$}", "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := theme.ReplaceAll(tt.template, tt.token, tt.replacement)
			if got != tt.want {
				t.Errorf("ReplaceAll(%q, %q, %q) = %q, want %q", tt.template, tt.token, tt.replacement, got, tt.want)
			}
		})
	}
}
