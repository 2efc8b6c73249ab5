package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrTooManyStates indicates a construction exceeded its state limit
	ErrTooManyStates = errors.New("NFA state limit exceeded")

	// ErrAlphabetMismatch indicates operands or guards over different alphabets
	ErrAlphabetMismatch = errors.New("NFA alphabet mismatch")
)

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns the underlying sentinel, if any
func (e *BuildError) Unwrap() error {
	return e.Err
}

// LimitError reports a construction that would exceed the configured
// state limit.
type LimitError struct {
	Op    string
	Limit int
}

// Error implements the error interface
func (e *LimitError) Error() string {
	return fmt.Sprintf("NFA %s: more than %d states", e.Op, e.Limit)
}

// Unwrap returns ErrTooManyStates
func (e *LimitError) Unwrap() error {
	return ErrTooManyStates
}
