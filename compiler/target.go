package compiler

import "fmt"

// Target selects the automaton a pattern compiles to.
type Target uint8

const (
	// Simple is a minimal total DFA for unanchored search. Its runtime only
	// reports whether some match ends at the current event.
	Simple Target = iota

	// Extended is a trimmed, bisimulation-reduced NFA. Its runtime tracks
	// the start of every candidate match and reports spans and horizon.
	Extended
)

// String returns the name used in artifacts and on the command line.
func (t Target) String() string {
	switch t {
	case Simple:
		return "simple"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("Target(%d)", t)
	}
}

// ParseTarget maps "simple" or "extended" to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "extended":
		return Extended, nil
	}
	return 0, fmt.Errorf("unknown target %q (want simple or extended)", s)
}
