package sere

import (
	"fmt"
	"log/slog"

	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
)

// Config controls compilation, artifact encoding and loading.
//
// The compiler limits are embedded, so they are set directly:
//
//	config := sere.DefaultConfig()
//	config.MaxAtomics = 16
//	config.Logger = slog.Default()
type Config struct {
	compiler.Config

	// Encoding is the artifact encoding written by CompileWithConfig.
	// Loaders detect the encoding and ignore this field.
	// Default: codec.JSON
	Encoding codec.Encoding
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Config: compiler.DefaultConfig(), Encoding: codec.JSON}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Encoding {
	case codec.JSON, codec.Binary:
		return nil
	}
	return &compiler.ConfigError{Field: "Encoding", Message: fmt.Sprintf("unknown encoding %v", c.Encoding)}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
