package compiler

import (
	"log/slog"

	"github.com/coregx/sere/alphabet"
)

// Config controls pattern compilation.
//
// Example:
//
//	config := compiler.DefaultConfig()
//	config.MaxAtomics = 8
//	config.Logger = slog.Default()
//	res, err := compiler.Compile("a ; b", compiler.Simple, config)
type Config struct {
	// MaxAtomics limits the number of distinct predicates in a pattern.
	// Every automaton row covers 2^MaxAtomics letters.
	// Default: 12. Hard limit: alphabet.MaxAtomics (20).
	MaxAtomics int

	// MaxNFAStates limits every intermediate NFA built from the expression.
	// Default: 10,000
	MaxNFAStates int

	// MaxDFAStates limits subset construction, for negation and for the
	// simple target.
	// Default: 10,000
	MaxDFAStates int

	// MaxRecursionDepth limits parenthesis, call and negation nesting in
	// the parser.
	// Default: 100
	MaxRecursionDepth int

	// Logger receives Debug records about each compilation. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAtomics:        12,
		MaxNFAStates:      10_000,
		MaxDFAStates:      10_000,
		MaxRecursionDepth: 100,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxAtomics < 0 || c.MaxAtomics > alphabet.MaxAtomics {
		return &ConfigError{Field: "MaxAtomics", Message: "must be between 0 and 20"}
	}
	if c.MaxNFAStates < 1 || c.MaxNFAStates > 1_000_000 {
		return &ConfigError{Field: "MaxNFAStates", Message: "must be between 1 and 1,000,000"}
	}
	if c.MaxDFAStates < 1 || c.MaxDFAStates > 1_000_000 {
		return &ConfigError{Field: "MaxDFAStates", Message: "must be between 1 and 1,000,000"}
	}
	if c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{Field: "MaxRecursionDepth", Message: "must be between 1 and 1,000"}
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "sere: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
