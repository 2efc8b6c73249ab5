package matcher

import "errors"

var (
	// ErrUnknownAtomic is returned for a predicate index outside the table.
	ErrUnknownAtomic = errors.New("matcher: unknown atomic")

	// ErrWidth is returned for a valuation whose length differs from the
	// predicate count.
	ErrWidth = errors.New("matcher: valuation width mismatch")

	// ErrTarget is returned when a runtime is built from a compiled pattern
	// of the other target.
	ErrTarget = errors.New("matcher: wrong automaton target")
)
