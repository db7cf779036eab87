package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented, line oriented dump of nested
// structures. It exists solely for human inspection output.
type TreeWriter struct {
	b strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.b.WriteString("  ")
	}
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// TextBlock writes a labeled value, quoting it so whitespace stays visible.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.Line(depth, "%s: %s", label, encodeText(value))
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
