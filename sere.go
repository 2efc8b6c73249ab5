// Package sere matches event streams against SERE patterns: regular
// expressions over named boolean predicates, extended with intersection and
// negation.
//
// A pattern is compiled once into a portable artifact and then loaded into a
// runtime that consumes events one at a time. Every event assigns true or
// false to each predicate of the pattern; predicates not mentioned are false.
//
// Basic usage:
//
//	// Compile a pattern for the simple target
//	art, err := sere.Compile("login ; true[*] ; purchase", sere.Simple)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it and feed events as valuations, in predicate order
//	m, err := sere.Load(art.Content())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m.Advance([]bool{true, false})
//	m.Advance([]bool{false, true})
//	fmt.Println(m.Result()) // matched
//
// The extended target reports where matches start:
//
//	art, _ := sere.Compile("a ; b", sere.Extended)
//	m, _ := sere.LoadExtended(art.Content())
//	a, _ := m.Index("a")
//	m.SetAtomic(a)
//	m.Advance()
//	fmt.Println(m.Matched()) // partial horizon=1
//
// Pattern grammar, tightest first:
//   - primary: predicate name, true, false, (), ( e ), PERMUTE(e, ...),
//     ABORT(e, err), PARTIAL(e)
//   - postfix: e[*], e[+], e{n}, e{n,}, e{n,m}
//   - prefix: !e (language complement)
//   - b && b, then b || b (one event satisfying a Boolean formula; inside
//     it !b negates the event)
//   - e & e (intersection)
//   - e ; e (concatenation) and e : e (fusion, sharing one event)
//   - e | e (union)
//
// Artifacts are JSON by default and can be written in a compact binary
// encoding instead (see Config.Encoding); loaders detect the encoding.
// Searching is unanchored: a match may start at any event.
package sere

import (
	"fmt"
	"log/slog"

	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
)

// Target selects the automaton a pattern is compiled to.
type Target = compiler.Target

const (
	// Simple compiles to a minimal search DFA with a per-event verdict.
	Simple = compiler.Simple
	// Extended compiles to a reduced NFA whose runtime reports match spans
	// and the horizon.
	Extended = compiler.Extended
)

// Artifact is a compiled pattern in serialized form.
//
// An Artifact is immutable and safe to share between goroutines.
type Artifact struct {
	pattern string
	content []byte
	result  *compiler.Result
}

// Compile compiles a pattern for target with the default configuration.
//
// Example:
//
//	art, err := sere.Compile("a ; b", sere.Simple)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, target Target) (*Artifact, error) {
	return CompileWithConfig(pattern, target, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
// Example:
//
//	var checkout = sere.MustCompile("cart ; pay", sere.Extended)
func MustCompile(pattern string, target Target) *Artifact {
	art, err := Compile(pattern, target)
	if err != nil {
		panic("sere: Compile(`" + pattern + "`): " + err.Error())
	}
	return art
}

// CompileWithConfig compiles a pattern with custom limits, encoding and
// logger.
//
// Example:
//
//	config := sere.DefaultConfig()
//	config.MaxDFAStates = 50_000
//	config.Encoding = codec.Binary
//	art, err := sere.CompileWithConfig("(a|b)[*] ; c", sere.Simple, config)
func CompileWithConfig(pattern string, target Target, config Config) (*Artifact, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	res, err := compiler.Compile(pattern, target, config.Config)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	content, err := codec.Encode(res, config.Encoding)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	config.logger().Debug("artifact encoded",
		slog.String("component", "sere"),
		slog.String("target", target.String()),
		slog.String("encoding", config.Encoding.String()),
		slog.Int("bytes", len(content)))
	return &Artifact{pattern: pattern, content: content, result: res}, nil
}

// Content returns the serialized artifact. The slice must not be modified.
func (a *Artifact) Content() []byte {
	return a.content
}

// Pattern returns the source text of the pattern.
func (a *Artifact) Pattern() string {
	return a.pattern
}

// Target returns the target the pattern was compiled for.
func (a *Artifact) Target() Target {
	return a.result.Target
}

// Atomics returns the predicate names in index order.
func (a *Artifact) Atomics() []string {
	return a.result.Atomics.Names()
}

// States returns the state count of the compiled automaton.
func (a *Artifact) States() int {
	return a.result.States()
}

// Encode serializes the artifact again in the given encoding.
func (a *Artifact) Encode(enc codec.Encoding) ([]byte, error) {
	return codec.Encode(a.result, enc)
}

// Result returns the compiled automaton behind the artifact. It is shared
// and must be treated as read-only.
func (a *Artifact) Result() *compiler.Result {
	return a.result
}

// String returns the pattern and its target.
func (a *Artifact) String() string {
	return fmt.Sprintf("%s (%s, %d states)", a.pattern, a.result.Target, a.States())
}
