package matcher

import (
	"fmt"
	"log/slog"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/dfa"
)

// Simple runs a simple-target pattern. Its only state is the active DFA
// state; the verdict is a function of that state alone.
//
// Unlike Extended, Simple counts the empty suffix: a pattern that accepts the
// empty word, such as a[*], () or !a, reports Matched right after Reset.
type Simple struct {
	predicates
	result *compiler.Result
	dfa    *dfa.DFA
	live   []bool
	state  dfa.StateID
	log    *slog.Logger
}

// NewSimple returns a runtime for r, which must be compiled or decoded for
// the simple target. A nil logger discards diagnostics.
func NewSimple(r *compiler.Result, logger *slog.Logger) (*Simple, error) {
	if r.Target != compiler.Simple || r.DFA == nil {
		return nil, fmt.Errorf("%w: simple runtime needs a simple artifact, got %s", ErrTarget, r.Target)
	}
	m := &Simple{
		predicates: predicates{table: r.Atomics},
		result:     r,
		dfa:        r.DFA,
		live:       r.DFA.Live(),
		log:        componentLogger(logger, "matcher.simple"),
	}
	m.Reset()
	m.log.Debug("runtime ready",
		slog.Int("atomics", m.AtomicCount()),
		slog.Int("states", m.dfa.States()))
	return m, nil
}

// Reset returns to the start state.
func (m *Simple) Reset() {
	m.state = m.dfa.Start()
}

// Advance consumes one event given as a dense valuation. Missing trailing
// predicates are false and extra entries are ignored.
func (m *Simple) Advance(values []bool) {
	m.AdvanceLetter(m.letter(values))
}

// AdvanceLetter consumes one event given as a packed valuation.
func (m *Simple) AdvanceLetter(l alphabet.Letter) {
	m.state = m.dfa.Next(m.state, l)
}

// Feed consumes one event in either step shape.
func (m *Simple) Feed(s Step) error {
	l, err := s.Letter(m.AtomicCount())
	if err != nil {
		return err
	}
	m.AdvanceLetter(l)
	return nil
}

// Result reports Matched when the active state accepts, Failed when no
// accepting state is reachable any more and Partial otherwise.
func (m *Simple) Result() Status {
	switch {
	case m.dfa.IsAccepting(m.state):
		return Matched
	case !m.live[m.state]:
		return Failed
	}
	return Partial
}

// State returns the active DFA state.
func (m *Simple) State() dfa.StateID {
	return m.state
}

// ToDot writes the DFA to path as a Graphviz digraph. The runtime state is
// not affected, even when writing fails.
func (m *Simple) ToDot(path string) error {
	return toDot(m.log, path, m.result)
}
