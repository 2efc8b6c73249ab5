package syntax

import (
	"errors"
	"fmt"
)

// Syntax error causes. An *Error always wraps exactly one of these.
var (
	// ErrUnexpectedToken indicates a token that cannot appear where it was found.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrMissingOperand indicates an operator with nothing on one side, as in "a;;".
	ErrMissingOperand = errors.New("missing operand")

	// ErrUnclosedParen indicates a '(' without a matching ')'.
	ErrUnclosedParen = errors.New("missing closing parenthesis")

	// ErrInvalidCharacter indicates input that is not part of any token.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrInvalidRepeat indicates a malformed or inverted {n,m} range.
	ErrInvalidRepeat = errors.New("invalid repetition range")

	// ErrTooManyElements indicates a PERMUTE list longer than MaxPermute.
	ErrTooManyElements = errors.New("too many PERMUTE elements")

	// ErrNestingDepth indicates the pattern nests deeper than the configured limit.
	ErrNestingDepth = errors.New("expression nests too deeply")

	// ErrNotBoolean indicates an operand of && or || that does not match a
	// single event, as in "a[*] && b".
	ErrNotBoolean = errors.New("operand is not a Boolean formula")
)

// Error is a syntax error with the position of the offending input.
// Line and Column are 1-based; Column counts runes.
type Error struct {
	Pattern string
	Offset  int
	Line    int
	Column  int
	Err     error
	Detail  string
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, msg)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}
