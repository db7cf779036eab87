package config

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"themec/theme"
)

// ThemesConfig is the authored theme store: one mapping where keys starting
// with the reserved prefix are control keys (_default, _selector) and all
// other keys define themes. Document order of theme definitions is
// preserved, it drives emission order.
type ThemesConfig struct {
	Names    []string             `yaml:"-"`
	Themes   map[string]theme.Map `yaml:"-"`
	Default  theme.Default        `yaml:"-"`
	Selector string               `yaml:"-"`
}

const (
	controlDefault  = theme.ReservedPrefix + "default"
	controlSelector = theme.ReservedPrefix + "selector"
)

// UnmarshalYAML decodes the theme mapping walking the yaml nodes directly:
// plain Decode would lose document order and stringly-typed values (colors,
// lengths, bare numbers) are taken verbatim from the scalar source.
func (tc *ThemesConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("themes: expected a mapping, got %s on line %d", nodeKind(node), node.Line)
	}

	tc.Names = nil
	tc.Themes = make(map[string]theme.Map)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value

		if strings.HasPrefix(name, theme.ReservedPrefix) {
			switch name {
			case controlDefault:
				switch value.Kind {
				case yaml.ScalarNode:
					tc.Default = theme.Default{Name: value.Value}
				case yaml.MappingNode:
					m, err := decodeThemeMap(value)
					if err != nil {
						return fmt.Errorf("themes: %s: %w", controlDefault, err)
					}
					tc.Default = theme.Default{Inline: m}
				default:
					return fmt.Errorf("themes: %s must be a theme name or a mapping, line %d", controlDefault, value.Line)
				}
			case controlSelector:
				if value.Kind != yaml.ScalarNode {
					return fmt.Errorf("themes: %s must be a string, line %d", controlSelector, value.Line)
				}
				tc.Selector = value.Value
			default:
				return fmt.Errorf("themes: unknown control key %q, line %d", name, key.Line)
			}
			continue
		}

		m, err := decodeThemeMap(value)
		if err != nil {
			return fmt.Errorf("themes: %q: %w", name, err)
		}
		if _, exists := tc.Themes[name]; !exists {
			tc.Names = append(tc.Names, name)
		}
		tc.Themes[name] = m
	}
	return nil
}

// MarshalYAML writes the mapping back preserving theme order.
func (tc ThemesConfig) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	appendScalar := func(s string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	}
	appendMap := func(m theme.Map) *yaml.Node {
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range sortedKeys(m) {
			n.Content = append(n.Content, appendScalar(k), appendScalar(string(m[k])))
		}
		return n
	}

	if !tc.Default.IsZero() {
		out.Content = append(out.Content, appendScalar(controlDefault))
		if tc.Default.Name != "" {
			out.Content = append(out.Content, appendScalar(tc.Default.Name))
		} else {
			out.Content = append(out.Content, appendMap(tc.Default.Inline))
		}
	}
	if tc.Selector != "" {
		out.Content = append(out.Content, appendScalar(controlSelector), appendScalar(tc.Selector))
	}
	for _, name := range tc.Names {
		out.Content = append(out.Content, appendScalar(name), appendMap(tc.Themes[name]))
	}
	return out, nil
}

// Store builds the runtime theme store in authored order.
func (tc ThemesConfig) Store(log *zap.Logger) *theme.Store {
	st := theme.NewStore(log)
	if tc.Selector != "" {
		st.SetSelector(tc.Selector)
	}
	for _, name := range tc.Names {
		st.Define(name, tc.Themes[name])
	}
	st.SetDefault(tc.Default)
	return st
}

func decodeThemeMap(node *yaml.Node) (theme.Map, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of style properties, got %s on line %d", nodeKind(node), node.Line)
	}
	m := make(theme.Map, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("style value for %q must be a scalar, line %d", key.Value, value.Line)
		}
		m[key.Value] = theme.Value(value.Value)
	}
	return m, nil
}

func sortedKeys(m theme.Map) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// deterministic dumps
	sort.Strings(keys)
	return keys
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.MappingNode:
		return "a mapping"
	default:
		return "an unexpected node"
	}
}
