package theme

import (
	"errors"

	"go.uber.org/zap"
)

// ErrNoThemeContext is returned when resolution is attempted with no
// explicit theme, no active scope and no usable default. Unlike the warning
// paths this aborts generation: without any theme context the call cannot
// proceed.
var ErrNoThemeContext = errors.New("theme not specified: no explicit theme, active scope or default theme")

// Query describes one style resolution request.
type Query struct {
	// Keys are the requested style property names, resolved in order.
	Keys []string
	// Theme optionally names the theme to resolve against, taking
	// precedence over the active scope and the default.
	Theme string
	// Scope is the active emission scope, if the request originates inside
	// an EachScope callback.
	Scope *Scope
	// Overrides is merged into a local copy of the store for this call.
	Overrides *Overrides
}

// Resolve performs layered lookup of style values. Theme selection
// precedence is: explicit Theme if it exists in the (overridden) store, then
// the active scope's theme, then the default theme. Each key resolves from
// the selected theme with fallback to the default theme; keys found in
// neither contribute nothing. When nothing resolves at all the result is the
// single Initial sentinel and a warning.
func (s *Store) Resolve(q Query) ([]Value, error) {
	base := s
	if q.Scope != nil && q.Scope.store != nil {
		base = q.Scope.store
	}
	eff := base.With(q.Overrides)

	var (
		selected     Map
		haveSelected bool
	)
	if q.Theme != "" {
		if m, ok := eff.Theme(q.Theme); ok {
			selected, haveSelected = m, true
		} else {
			eff.log.Warn("Requested theme is not defined", zap.String("theme", q.Theme))
		}
	}
	if !haveSelected && q.Scope != nil {
		selected, haveSelected = q.Scope.values, true
	}

	def, hasDefault := eff.DefaultTheme()
	if !haveSelected {
		if !hasDefault {
			return nil, ErrNoThemeContext
		}
		selected = def
	}

	values := make([]Value, 0, len(q.Keys))
	for _, key := range q.Keys {
		if v, ok := selected[key]; ok {
			values = append(values, v)
			continue
		}
		if hasDefault {
			if v, ok := def[key]; ok {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		eff.log.Warn("No resolvable style value", zap.Strings("keys", q.Keys), zap.String("theme", q.Theme))
		return []Value{Initial}, nil
	}
	return values, nil
}
