package generate

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"themec/theme"
	"themec/utils/debug"
)

// DescribeStore returns a readable tree of the configured store. It backs
// the themes listing and exists solely for human inspection.
func DescribeStore(st *theme.Store) string {
	tw := debug.NewTreeWriter()

	def := st.Default()
	switch {
	case def.Name != "":
		tw.Line(0, "Default theme: %q", def.Name)
	case def.Inline != nil:
		tw.Line(0, "Default theme: inline, %d values", len(def.Inline))
		describeValues(tw, 1, def.Inline)
	default:
		tw.Line(0, "Default theme: none")
	}
	tw.TextBlock(0, "Selector template", st.Selector())

	tw.Line(0, "Themes: %d", st.Len())
	names := st.Names()
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		m, _ := st.Theme(name)
		tw.Line(1, "%s: %d values", name, len(m))
		describeValues(tw, 2, m)
	}
	return tw.String()
}

func describeValues(tw *debug.TreeWriter, depth int, m theme.Map) {
	keys := slices.Collect(maps.Keys(m))
	sort.Sort(natural.StringSlice(keys))
	for _, k := range keys {
		tw.TextBlock(depth, k, string(m[k]))
	}
}
