package sere

import (
	"fmt"
	"log/slog"

	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/matcher"
)

// Load decodes a simple artifact and returns a runtime positioned at the
// start of the stream.
func Load(content []byte) (*matcher.Simple, error) {
	return LoadWithConfig(content, DefaultConfig())
}

// LoadWithConfig is Load with a logger taken from config.
func LoadWithConfig(content []byte, config Config) (*matcher.Simple, error) {
	res, err := decode(content, compiler.Simple, config)
	if err != nil {
		return nil, err
	}
	return matcher.NewSimple(res, config.Logger)
}

// LoadExtended decodes an extended artifact and returns a runtime
// positioned at the start of the stream.
func LoadExtended(content []byte) (*matcher.Extended, error) {
	return LoadExtendedWithConfig(content, DefaultConfig())
}

// LoadExtendedWithConfig is LoadExtended with a logger taken from config.
func LoadExtendedWithConfig(content []byte, config Config) (*matcher.Extended, error) {
	res, err := decode(content, compiler.Extended, config)
	if err != nil {
		return nil, err
	}
	return matcher.NewExtended(res, config.Logger)
}

// LoadAny decodes an artifact of either target and returns the matching
// runtime: a *matcher.Simple or a *matcher.Extended.
func LoadAny(content []byte, config Config) (matcher.Runtime, error) {
	res, err := codec.Decode(content)
	if err != nil {
		return nil, err
	}
	logLoaded(config, res, len(content))
	if res.Target == compiler.Simple {
		return matcher.NewSimple(res, config.Logger)
	}
	return matcher.NewExtended(res, config.Logger)
}

// Decode returns the compiled automaton stored in an artifact, for tools
// that inspect it rather than run it.
func Decode(content []byte) (*compiler.Result, error) {
	return codec.Decode(content)
}

func decode(content []byte, want compiler.Target, config Config) (*compiler.Result, error) {
	res, err := codec.Decode(content)
	if err != nil {
		return nil, err
	}
	if res.Target != want {
		return nil, fmt.Errorf("%w: %s artifact, %s loader", ErrTargetMismatch, res.Target, want)
	}
	logLoaded(config, res, len(content))
	return res, nil
}

func logLoaded(config Config, res *compiler.Result, size int) {
	config.logger().Debug("artifact loaded",
		slog.String("component", "sere"),
		slog.String("target", res.Target.String()),
		slog.Int("atomics", res.Atomics.Len()),
		slog.Int("states", res.States()),
		slog.Int("bytes", size))
}
