package config

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// Specification of requested output formatting.
type OutputMode int

const (
	OutputModeExpanded OutputMode = iota
	OutputModeCompact
)

var outputModeNames = []string{"expanded", "compact"}

func (o OutputMode) String() string {
	if o < 0 || int(o) >= len(outputModeNames) {
		// this should never happen
		panic("unsupported output mode requested")
	}
	return outputModeNames[o]
}

// OutputModeNames returns the accepted mode spellings.
func OutputModeNames() []string {
	names := make([]string, len(outputModeNames))
	copy(names, outputModeNames)
	return names
}

// ParseOutputMode converts a mode name to its value.
func ParseOutputMode(s string) (OutputMode, error) {
	for i, name := range outputModeNames {
		if name == s {
			return OutputMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown output mode %q", s)
}

func (o *OutputMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseOutputMode(s)
	if err != nil {
		return err
	}
	*o = mode
	return nil
}

func (o OutputMode) MarshalYAML() (any, error) {
	return o.String(), nil
}
