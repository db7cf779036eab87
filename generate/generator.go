// Package generate implements the compile pass: expanding theme-scoped
// sections of parsed stylesheets and resolving theme value references
// against the configured store.
package generate

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"themec/css"
	"themec/theme"
)

// Generator expands parsed stylesheets against a theme store.
type Generator struct {
	store *theme.Store
	log   *zap.Logger
}

// New creates a generator over the given store.
func New(store *theme.Store, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{store: store, log: log.Named("generator")}
}

// Expand resolves all theme references and expands @themed blocks, returning
// a stylesheet containing only plain rules and imports. Expansion order
// follows the store: the unscoped default block first, then one scoped block
// group per theme in configured order, so later per-theme rules win the
// cascade over the default ones. The input sheet is not modified.
func (g *Generator) Expand(sheet *css.Stylesheet) (*css.Stylesheet, error) {
	out := &css.Stylesheet{Warnings: slices.Clone(sheet.Warnings)}

	for _, item := range sheet.Items {
		switch {
		case item.Import != nil:
			url := *item.Import
			out.Items = append(out.Items, css.StylesheetItem{Import: &url})

		case item.Rule != nil:
			// a theme() outside any @themed block resolves against the
			// default theme, or fails when there is none
			rule, err := g.resolveRule(item.Rule, nil)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, css.StylesheetItem{Rule: rule})

		case item.Themed != nil:
			block := item.Themed
			err := g.store.EachScope(theme.ScopeOptions{Themes: block.Themes}, func(sc *theme.Scope) error {
				for i := range block.Rules {
					rule, err := g.resolveRule(&block.Rules[i], sc)
					if err != nil {
						return err
					}
					rule.Selector = scopeSelector(sc, rule.Selector)
					out.Items = append(out.Items, css.StylesheetItem{Rule: rule})
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// resolveRule returns a copy of rule with every theme reference replaced by
// its resolved values, joined with spaces the way CSS shorthand properties
// consume token lists.
func (g *Generator) resolveRule(rule *css.Rule, sc *theme.Scope) (*css.Rule, error) {
	resolved := &css.Rule{
		Selector:   rule.Selector,
		Properties: make(map[string]css.Value, len(rule.Properties)),
	}
	for name, val := range rule.Properties {
		if !val.IsRef() {
			resolved.Properties[name] = val
			continue
		}
		values, err := g.store.Resolve(theme.Query{Keys: val.Ref.Keys, Theme: val.Ref.Theme, Scope: sc})
		if err != nil {
			return nil, fmt.Errorf("resolving %s of %q: %w", name, rule.Selector, err)
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = string(v)
		}
		resolved.Properties[name] = css.Value{Raw: strings.Join(parts, " ")}
	}
	return resolved, nil
}

// scopeSelector wraps a rule selector in the scope's selector. A parent
// reference & in the expanded scope selector is replaced with the rule
// selector, otherwise the scope selector prefixes it. Grouped selectors are
// wrapped part by part so the scope applies to each.
func scopeSelector(sc *theme.Scope, ruleSelector string) string {
	if sc.IsDefault() {
		return ruleSelector
	}
	parts := splitSelectorList(ruleSelector)
	for i, part := range parts {
		if strings.Contains(sc.Selector(), "&") {
			parts[i] = theme.ReplaceAll(sc.Selector(), "&", part)
		} else {
			parts[i] = sc.Selector() + " " + part
		}
	}
	return strings.Join(parts, ", ")
}

// splitSelectorList splits a selector group on top level commas only. Commas
// nested in parentheses, brackets or quoted strings (:is(h1, h2),
// a[title="x,y"]) belong to the selector and must not start a new part.
func splitSelectorList(selector string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(selector[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(selector[start:]))
}
