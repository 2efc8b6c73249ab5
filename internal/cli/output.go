package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/syntax"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Unexpected failure
	ExitCommandError = 2 // Command error (bad pattern, unreadable artifact, malformed events, etc.)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeUsage       = "E002" // Invalid flag or argument value
	ErrCodeSyntax      = "E003" // Pattern syntax error
	ErrCodeTooComplex  = "E004" // Pattern exceeds a compiler limit
	ErrCodeReadFailed  = "E005" // File or stream read error
	ErrCodeWriteFailed = "E006" // File write error
	ErrCodeArtifact    = "E007" // Malformed artifact
	ErrCodeEvent       = "E008" // Malformed event
	ErrCodeConfig      = "E009" // Invalid scan configuration
	ErrCodeStore       = "E010" // Match journal error
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics; defaults to Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Record outputs one element of a result stream: a JSON line, or a text
// line.
func (f *OutputFormatter) Record(v any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(v)
	}
	_, err := fmt.Fprintln(f.Writer, v)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}
	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports an error and returns the matching command error.
func (f *OutputFormatter) fail(code, message string, details any) error {
	_ = f.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// SyntaxDetails locates a syntax error in the pattern.
type SyntaxDetails struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (d SyntaxDetails) String() string {
	return fmt.Sprintf("line %d, column %d", d.Line, d.Column)
}

// failCompile reports a pattern that could not be compiled.
func (f *OutputFormatter) failCompile(err error) error {
	var syn *syntax.Error
	switch {
	case errors.As(err, &syn):
		return f.fail(ErrCodeSyntax, err.Error(), SyntaxDetails{Line: syn.Line, Column: syn.Column, Offset: syn.Offset})
	case errors.Is(err, compiler.ErrTooComplex):
		return f.fail(ErrCodeTooComplex, err.Error(), nil)
	case errors.Is(err, compiler.ErrInvalidConfig):
		return f.fail(ErrCodeConfig, err.Error(), nil)
	}
	return f.fail(ErrCodeGeneric, err.Error(), nil)
}

// failLoad reports an artifact that could not be loaded.
func (f *OutputFormatter) failLoad(path string, err error) error {
	if errors.Is(err, codec.ErrFormat) {
		return f.fail(ErrCodeArtifact, fmt.Sprintf("%s: %v", path, err), nil)
	}
	return f.fail(ErrCodeGeneric, fmt.Sprintf("%s: %v", path, err), nil)
}
