package theme

import (
	"sort"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v3"
	"go.uber.org/zap"
)

// PlaceholderToken is the literal in a selector template that gets replaced
// with the theme name when building a scoped selector.
const PlaceholderToken = "{$}"

// DefaultSelector is the selector template used when configuration does not
// provide one.
const DefaultSelector = `[data-theme="{$}"]`

// ReservedPrefix marks control keys in the configuration mapping. Keys not
// starting with it are theme names.
const ReservedPrefix = "_"

// Default describes the store's default theme. Exactly one of Name or Inline
// is set: Name refers to a theme defined in the store, Inline holds the
// values directly. The zero value means "no default".
type Default struct {
	Name   string
	Inline Map
}

func (d Default) IsZero() bool {
	return d.Name == "" && d.Inline == nil
}

// Store is the theme configuration: an insertion-ordered mapping of theme
// names to their style values plus the default theme and the selector
// template. It is defined once at load time and only read afterwards; all
// per-call overrides operate on local copies.
type Store struct {
	themes   *orderedmap.OrderedMap[string, Map]
	def      Default
	selector string
	log      *zap.Logger
}

// NewStore creates an empty store with the built-in selector template.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		themes:   orderedmap.NewOrderedMap[string, Map](),
		selector: DefaultSelector,
		log:      log.Named("theme-store"),
	}
}

// Define adds a theme or replaces an already defined one, keeping its
// original position. Names starting with the reserved prefix or empty names
// are rejected with a warning.
func (s *Store) Define(name string, m Map) {
	if name == "" || strings.HasPrefix(name, ReservedPrefix) {
		s.log.Warn("Ignoring invalid theme name", zap.String("name", name))
		return
	}
	s.themes.Set(name, m)
}

// SetDefault configures the default theme.
func (s *Store) SetDefault(d Default) {
	s.def = d
}

// SetSelector configures the selector template. An empty template disables
// themed emission (the default block is still emitted).
func (s *Store) SetSelector(selector string) {
	s.selector = selector
}

// Selector returns the current selector template.
func (s *Store) Selector() string {
	return s.selector
}

// Theme returns the values of a named theme.
func (s *Store) Theme(name string) (Map, bool) {
	return s.themes.Get(name)
}

// Names returns theme names in insertion order.
func (s *Store) Names() []string {
	names := make([]string, 0, s.themes.Len())
	for name := range s.themes.Keys() {
		names = append(names, name)
	}
	return names
}

// Len returns the number of defined themes.
func (s *Store) Len() int {
	return s.themes.Len()
}

// Default returns the configured default as authored, without resolving a
// named default to its values.
func (s *Store) Default() Default {
	return s.def
}

// DefaultTheme resolves the configured default to its values. A named
// default must refer to a theme present in the store; indirection is a
// single hop, it never chains.
func (s *Store) DefaultTheme() (Map, bool) {
	switch {
	case s.def.Inline != nil:
		return s.def.Inline, true
	case s.def.Name != "":
		if m, ok := s.themes.Get(s.def.Name); ok {
			return m, true
		}
	}
	return nil, false
}

// Overrides is a per-call configuration overlay. Themes are shallow
// top-level replacements (a theme named in Themes replaces the stored one
// entirely), Default and Selector replace the store's settings when set.
type Overrides struct {
	Themes   map[string]Map
	Default  *Default
	Selector *string
}

// With returns a copy of the store with o merged on top. The receiver is
// never modified; callers get a store local to one invocation. A nil o
// returns the receiver itself.
func (s *Store) With(o *Overrides) *Store {
	if o == nil {
		return s
	}
	clone := &Store{
		themes:   s.themes.Copy(),
		def:      s.def,
		selector: s.selector,
		log:      s.log,
	}
	// replacements keep their position, new names append in sorted order so
	// the result does not depend on Go map iteration
	added := make([]string, 0, len(o.Themes))
	for name, m := range o.Themes {
		if _, exists := clone.themes.Get(name); exists {
			clone.themes.Set(name, m)
			continue
		}
		added = append(added, name)
	}
	sort.Strings(added)
	for _, name := range added {
		clone.Define(name, o.Themes[name])
	}
	if o.Default != nil {
		clone.def = *o.Default
	}
	if o.Selector != nil {
		clone.selector = *o.Selector
	}
	return clone
}
