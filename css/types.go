// Package css models author stylesheets for theme-scoped generation:
// plain rules, @import lines and @themed blocks whose declarations may
// reference theme values through theme(...) calls.
package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ThemeRef is a parsed theme(...) value reference: the style keys to
// resolve, in request order, and an optional explicit theme name after the
// comma, as in theme(bg, dark).
type ThemeRef struct {
	Keys  []string
	Theme string
}

// Value represents a CSS property value: literal text, or a theme reference
// to be resolved during generation. Raw always holds the original source
// text, including the theme(...) call for references.
type Value struct {
	Raw string
	Ref *ThemeRef
}

// IsRef returns true when the value is a theme reference.
func (v Value) IsRef() bool {
	return v.Ref != nil
}

// Rule represents a single CSS rule (selector + properties). The selector is
// kept raw, grouped selectors included.
type Rule struct {
	Selector   string
	Properties map[string]Value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// ThemedBlock is an @themed section: nested rules emitted once per theme
// scope, optionally limited to the listed theme names.
type ThemedBlock struct {
	Themes []string
	Rules  []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, Themed, or Import is non-nil.
type StylesheetItem struct {
	Rule   *Rule
	Themed *ThemedBlock
	Import *string
}

// Stylesheet represents a parsed stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem
	Warnings []string
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// RulesBySelector returns all top-level rules matching the given selector.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && item.Rule.Selector == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// ThemedBlocks returns all @themed blocks in source order.
func (s *Stylesheet) ThemedBlocks() []ThemedBlock {
	var blocks []ThemedBlock
	for _, item := range s.Items {
		if item.Themed != nil {
			blocks = append(blocks, *item.Themed)
		}
	}
	return blocks
}

// WriteTo writes the stylesheet to w in source order, implementing
// io.WriterTo. Property order within a rule is sorted alphabetically for
// deterministic output. Unresolved theme references are written back as
// their original theme(...) text.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.Themed != nil:
			n, err = writeThemedBlock(w, item.Themed)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// WriteCompactTo writes the stylesheet without indentation or blank lines,
// one rule per line. @themed blocks are not representable compactly and are
// written in their expanded form.
func (s *Stylesheet) WriteCompactTo(w io.Writer) (int64, error) {
	var total int64
	for _, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.Themed != nil:
			n, err = writeThemedBlock(w, item.Themed)
		case item.Rule != nil:
			n, err = writeRuleCompact(w, item.Rule)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func sortedPropertyNames(props map[string]Value) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeRule writes a single CSS rule to w, each line prefixed with indent.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, name := range sortedPropertyNames(rule.Properties) {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, name, rule.Properties[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

func writeRuleCompact(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s{", rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, name := range sortedPropertyNames(rule.Properties) {
		n, err = fmt.Fprintf(w, "%s:%s;", name, rule.Properties[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeThemedBlock writes an @themed block back out, used only when dumping
// parsed but not yet expanded stylesheets.
func writeThemedBlock(w io.Writer, tb *ThemedBlock) (int, error) {
	var total int
	head := "@themed"
	if len(tb.Themes) > 0 {
		head += " " + strings.Join(tb.Themes, ", ")
	}
	n, err := fmt.Fprintf(w, "%s {\n", head)
	total += n
	if err != nil {
		return total, err
	}
	for i := range tb.Rules {
		n, err = writeRule(w, &tb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
		if i < len(tb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
