package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrTooComplex indicates the pattern exceeds one of the Config limits.
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidConfig indicates invalid configuration was provided.
	ErrInvalidConfig = errors.New("invalid compiler configuration")
)

// tooComplex wraps a limit violation so that both ErrTooComplex and the
// cause (nfa.ErrTooManyStates, dfa.ErrStateLimitExceeded) match errors.Is.
func tooComplex(err error) error {
	return fmt.Errorf("%w: %w", ErrTooComplex, err)
}
