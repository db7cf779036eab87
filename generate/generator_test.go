package generate

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"themec/css"
	"themec/theme"
)

func newTestStore(t *testing.T) *theme.Store {
	t.Helper()
	st := theme.NewStore(zaptest.NewLogger(t))
	st.Define("light", theme.Map{"color": "black", "background": "white"})
	st.Define("dark", theme.Map{"color": "white"})
	st.SetDefault(theme.Default{Name: "light"})
	return st
}

func expandSource(t *testing.T, st *theme.Store, source string) *css.Stylesheet {
	t.Helper()
	log := zaptest.NewLogger(t)
	sheet := css.NewParser(log).Parse([]byte(source), "test.css")
	out, err := New(st, log).Expand(sheet)
	if err != nil {
		t.Fatalf("Expand() failed: %v", err)
	}
	return out
}

func propertyOf(t *testing.T, sheet *css.Stylesheet, selector, name string) string {
	t.Helper()
	rules := sheet.RulesBySelector(selector)
	if len(rules) != 1 {
		t.Fatalf("expected one rule for %q, got %d", selector, len(rules))
	}
	v, ok := rules[0].GetProperty(name)
	if !ok {
		t.Fatalf("rule %q has no property %q", selector, name)
	}
	if v.IsRef() {
		t.Fatalf("property %s of %q was not resolved", name, selector)
	}
	return v.Raw
}

func TestExpand_ThemedBlock(t *testing.T) {
	out := expandSource(t, newTestStore(t), `
@themed {
	body { color: theme(color); }
}
`)
	// ambient block from the default theme plus one scoped block for dark,
	// light is the default so it gets no selector of its own
	if got := len(out.Items); got != 2 {
		t.Fatalf("expected 2 rules, got %d", got)
	}
	if got := propertyOf(t, out, "body", "color"); got != "black" {
		t.Errorf("default block color = %q, want %q", got, "black")
	}
	if got := propertyOf(t, out, `[data-theme="dark"] body`, "color"); got != "white" {
		t.Errorf("dark block color = %q, want %q", got, "white")
	}
}

func TestExpand_ThemedBlockFilter(t *testing.T) {
	st := newTestStore(t)
	st.Define("sepia", theme.Map{"color": "brown"})

	out := expandSource(t, st, `
@themed sepia {
	body { color: theme(color); }
}
`)
	if got := len(out.Items); got != 2 {
		t.Fatalf("expected 2 rules, got %d", got)
	}
	// the ambient default block does not depend on the filter
	if got := propertyOf(t, out, "body", "color"); got != "black" {
		t.Errorf("default block color = %q, want %q", got, "black")
	}
	if got := propertyOf(t, out, `[data-theme="sepia"] body`, "color"); got != "brown" {
		t.Errorf("sepia block color = %q, want %q", got, "brown")
	}
}

func TestExpand_PlainRuleUsesDefault(t *testing.T) {
	out := expandSource(t, newTestStore(t), `p { color: theme(color); margin: 1em; }`)

	if got := propertyOf(t, out, "p", "color"); got != "black" {
		t.Errorf("color = %q, want %q", got, "black")
	}
	if got := propertyOf(t, out, "p", "margin"); got != "1em" {
		t.Errorf("margin = %q, want %q", got, "1em")
	}
}

func TestExpand_PlainRuleNoDefault(t *testing.T) {
	log := zaptest.NewLogger(t)
	st := theme.NewStore(log)
	st.Define("dark", theme.Map{"color": "white"})

	sheet := css.NewParser(log).Parse([]byte(`p { color: theme(color); }`), "test.css")
	_, err := New(st, log).Expand(sheet)
	if !errors.Is(err, theme.ErrNoThemeContext) {
		t.Fatalf("Expand() error = %v, want ErrNoThemeContext", err)
	}
}

func TestExpand_ExplicitThemeReference(t *testing.T) {
	out := expandSource(t, newTestStore(t), `p { border-color: theme(color, dark); }`)

	if got := propertyOf(t, out, "p", "border-color"); got != "white" {
		t.Errorf("border-color = %q, want %q", got, "white")
	}
}

func TestExpand_MultiKeyReference(t *testing.T) {
	log := zaptest.NewLogger(t)
	st := theme.NewStore(log)
	st.Define("base", theme.Map{"margin-v": "1em", "margin-h": "2em"})
	st.SetDefault(theme.Default{Name: "base"})

	out := expandSource(t, st, `p { margin: theme(margin-v margin-h); }`)
	if got := propertyOf(t, out, "p", "margin"); got != "1em 2em" {
		t.Errorf("margin = %q, want %q", got, "1em 2em")
	}
}

func TestExpand_ImportsPreserved(t *testing.T) {
	out := expandSource(t, newTestStore(t), `
@import "fonts.css";

p { color: red; }
`)
	imports := out.Imports()
	if len(imports) != 1 || imports[0] != "fonts.css" {
		t.Fatalf("Imports() = %v, want [fonts.css]", imports)
	}
	if got := propertyOf(t, out, "p", "color"); got != "red" {
		t.Errorf("color = %q, want %q", got, "red")
	}
}

func TestExpand_GroupedSelectorScoping(t *testing.T) {
	out := expandSource(t, newTestStore(t), `
@themed dark {
	h1, h2 { color: theme(color); }
}
`)
	if got := propertyOf(t, out, `[data-theme="dark"] h1, [data-theme="dark"] h2`, "color"); got != "white" {
		t.Errorf("scoped color = %q, want %q", got, "white")
	}
}

func TestExpand_ParentReferenceSelector(t *testing.T) {
	st := newTestStore(t)
	st.SetSelector(".{$} > &")

	out := expandSource(t, st, `
@themed dark {
	p { color: theme(color); }
}
`)
	if got := propertyOf(t, out, ".dark > p", "color"); got != "white" {
		t.Errorf("scoped color = %q, want %q", got, "white")
	}
}

func TestScopeSelector(t *testing.T) {
	st := newTestStore(t)

	var dark *theme.Scope
	err := st.EachScope(theme.ScopeOptions{Themes: []string{"dark"}}, func(sc *theme.Scope) error {
		if sc.Name() == "dark" {
			dark = sc
		}
		return nil
	})
	if err != nil {
		t.Fatalf("EachScope() failed: %v", err)
	}
	if dark == nil {
		t.Fatal("dark scope was not visited")
	}

	if got := scopeSelector(dark, "h1"); got != `[data-theme="dark"] h1` {
		t.Errorf("scopeSelector() = %q", got)
	}
	if got := scopeSelector(dark, "h1 , h2"); got != `[data-theme="dark"] h1, [data-theme="dark"] h2` {
		t.Errorf("scopeSelector() = %q", got)
	}
	// commas nested in functional pseudo-classes and attribute strings stay
	// inside one group part
	if got := scopeSelector(dark, ":is(h1, h2)"); got != `[data-theme="dark"] :is(h1, h2)` {
		t.Errorf("scopeSelector() = %q", got)
	}
	if got := scopeSelector(dark, `a[title="x,y"], b`); got != `[data-theme="dark"] a[title="x,y"], [data-theme="dark"] b` {
		t.Errorf("scopeSelector() = %q", got)
	}
}

func TestSplitSelectorList(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		expected []string
	}{
		{"single", "h1", []string{"h1"}},
		{"group", "h1, h2", []string{"h1", "h2"}},
		{"pseudo-class args", ":is(h1, h2), p", []string{":is(h1, h2)", "p"}},
		{"nested functions", ":not(:is(a, b)), i", []string{":not(:is(a, b))", "i"}},
		{"attribute string", `a[title="x,y"], b`, []string{`a[title="x,y"]`, "b"}},
		{"single quoted", `a[title='x,y']`, []string{`a[title='x,y']`}},
		{"escaped quote", `a[title="x\",y"], b`, []string{`a[title="x\",y"]`, "b"}},
		{"unbalanced close", "a), b", []string{"a)", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitSelectorList(tt.selector)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitSelectorList() = %q, want %q", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitSelectorList()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestExpand_NestedCommaSelectorScoping(t *testing.T) {
	out := expandSource(t, newTestStore(t), `
@themed dark {
	:is(h1, h2) { color: theme(color); }
}
`)
	if got := propertyOf(t, out, `[data-theme="dark"] :is(h1, h2)`, "color"); got != "white" {
		t.Errorf("scoped color = %q, want %q", got, "white")
	}
}
