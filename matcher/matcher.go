// Package matcher runs compiled patterns over event streams, one event at a
// time.
//
// Two runtimes exist, one per compilation target. Simple drives the search
// DFA of the simple target: a single active state and a Status verdict per
// step. Extended drives the NFA of the extended target and tracks every
// candidate match concurrently, reporting the shortest and longest accepted
// suffix and the horizon, the number of trailing events that can still be
// part of a match.
//
// Both runtimes search unanchored: a match may start at any event. A runtime
// owns its mutable state and must not be used from several goroutines at
// once, but any number of runtimes may share one compiled pattern.
//
// Predicate names are resolved once, with Index, before events are fed:
//
//	m, _ := matcher.NewExtended(result, nil)
//	login, _ := m.Index("login")
//	m.SetAtomic(login)
//	m.Advance()
//	fmt.Println(m.Matched())
package matcher

import (
	"log/slog"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/dot"
)

// Runtime is the step interface shared by Simple and Extended.
type Runtime interface {
	AtomicCount() int
	AtomicName(i int) string
	Index(name string) (int, bool)
	Reset()
	Feed(s Step) error
	Result() Status
	ToDot(path string) error
}

var (
	_ Runtime = (*Simple)(nil)
	_ Runtime = (*Extended)(nil)
)

// predicates gives a runtime access to the predicate table of its pattern.
type predicates struct {
	table *alphabet.Table
}

// AtomicCount returns the number of predicates of the pattern.
func (p predicates) AtomicCount() int {
	return p.table.Len()
}

// AtomicName returns the name of predicate i, or "" when out of range.
func (p predicates) AtomicName(i int) string {
	return p.table.Name(i)
}

// Index resolves a predicate name to its index.
func (p predicates) Index(name string) (int, bool) {
	return p.table.Index(name)
}

// letter packs a dense valuation, ignoring entries beyond the table.
func (p predicates) letter(values []bool) alphabet.Letter {
	if n := p.table.Len(); len(values) > n {
		values = values[:n]
	}
	return alphabet.FromValues(values)
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return logger.With(slog.String("component", component))
}

func toDot(log *slog.Logger, path string, r *compiler.Result) error {
	if err := dot.WriteFile(path, r); err != nil {
		log.Warn("dot export failed", slog.String("path", path), slog.Any("error", err))
		return err
	}
	log.Debug("dot exported", slog.String("path", path))
	return nil
}
