package sere

import (
	"errors"

	"github.com/coregx/sere/syntax"
)

// ErrTargetMismatch is returned when an artifact is loaded by the loader of
// the other target: a simple artifact by LoadExtended or an extended one by
// Load.
var ErrTargetMismatch = errors.New("sere: artifact target mismatch")

// CompileError represents a pattern compilation error.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
// Syntax errors are returned as is, since they already carry the position.
func (e *CompileError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(e.Err, &syntaxErr) {
		return e.Err.Error()
	}
	return "sere: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
