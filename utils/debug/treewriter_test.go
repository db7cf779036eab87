package debug_test

import (
	"testing"

	"themec/utils/debug"
)

func TestTreeWriter(t *testing.T) {
	tw := debug.NewTreeWriter()
	tw.Line(0, "root: %d", 2)
	tw.Line(1, "child")
	tw.TextBlock(2, "value", `a "b"`)
	tw.TextBlock(2, "empty", "")

	want := "root: 2\n  child\n    value: \"a \\\"b\\\"\"\n    empty: \n"
	if got := tw.String(); got != want {
		t.Errorf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}
