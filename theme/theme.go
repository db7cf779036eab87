// Package theme implements the theme configuration store used during
// stylesheet generation: named sets of style properties, a default theme,
// scoped per-theme emission and layered lookup of style values.
package theme

// Value is an opaque stylesheet token (color, length, keyword). It is never
// interpreted, only stored and returned.
type Value string

// Initial is returned when none of the requested style keys resolve to a
// value. It is the CSS-wide keyword signaling "treat property as unset".
const Initial Value = "initial"

// Map holds one theme's concrete style values keyed by property name.
type Map map[string]Value

// Merge returns a shallow merge of base and overrides: every key of base not
// present in overrides is kept, every key of overrides replaces base's key.
// Neither argument is modified.
func Merge(base, overrides Map) Map {
	merged := make(Map, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
