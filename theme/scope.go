package theme

// Scope is the context of one emitted block: which theme is active and under
// which selector its declarations live. The default block carries an empty
// name and selector. A Scope is only valid for the duration of the EachScope
// callback that produced it; nothing ambient survives the call.
type Scope struct {
	name     string
	selector string
	values   Map
	store    *Store
}

// Name returns the active theme name, empty for the default block.
func (sc *Scope) Name() string {
	return sc.name
}

// Selector returns the expanded scoping selector, empty for the default
// (unscoped) block.
func (sc *Scope) Selector() string {
	return sc.selector
}

// IsDefault reports whether this is the unscoped default block.
func (sc *Scope) IsDefault() bool {
	return sc.name == ""
}

// Values returns the active theme's style values.
func (sc *Scope) Values() Map {
	return sc.values
}

// Resolve looks up the requested style keys against this scope's theme with
// fallback to the store's default theme.
func (sc *Scope) Resolve(keys ...string) ([]Value, error) {
	return sc.store.Resolve(Query{Keys: keys, Scope: sc})
}

// ScopeOptions controls one EachScope invocation. Themes filters which theme
// names are emitted (empty means all); Overrides is merged into a local copy
// of the store for this call only.
type ScopeOptions struct {
	Themes    []string
	Overrides *Overrides
}

// EachScope drives themed emission. When the effective store has a usable
// default theme the callback first runs once with the unscoped default
// scope, unconditionally and independent of the name filter. It then runs
// once per matching theme in insertion order, with the selector built by
// substituting the theme name into the selector template. Callback errors
// abort the iteration and propagate.
//
// When the selector template is empty, themed blocks are skipped with a
// warning; the default block is unaffected.
func (s *Store) EachScope(opts ScopeOptions, fn func(*Scope) error) error {
	eff := s.With(opts.Overrides)

	if def, ok := eff.DefaultTheme(); ok {
		if err := fn(&Scope{values: def, store: eff}); err != nil {
			return err
		}
	}

	filter := make(map[string]struct{}, len(opts.Themes))
	for _, name := range opts.Themes {
		filter[name] = struct{}{}
	}

	var warned bool
	for name, values := range eff.themes.AllFromFront() {
		if name == eff.def.Name {
			// the default theme is the ambient block, it does not get a
			// selector of its own
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[name]; !ok {
				continue
			}
		}
		if eff.selector == "" {
			if !warned {
				eff.log.Warn("Selector template is not configured, skipping themed blocks")
				warned = true
			}
			continue
		}
		sc := &Scope{
			name:     name,
			selector: ReplaceAll(eff.selector, PlaceholderToken, name),
			values:   values,
			store:    eff,
		}
		if err := fn(sc); err != nil {
			return err
		}
	}
	return nil
}
