package matcher

import (
	"fmt"
	"log/slog"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/internal/sparse"
	"github.com/coregx/sere/nfa"
)

// span is the age range of the candidates occupying one state: the youngest
// and the oldest, in events since they started.
type span struct {
	shortest, longest int
}

func (s span) merge(o span) span {
	return span{shortest: min(s.shortest, o.shortest), longest: max(s.longest, o.longest)}
}

// Extended runs an extended-target pattern.
//
// A candidate is a run of the NFA that started some events ago. Candidates
// sharing a state have the same future, so the runtime keeps one span per
// occupied state instead of one entry per candidate; memory is bounded by
// the state count however long the stream. Besides the occupied states, a
// standing candidate of age 0 waits at the start state before every event,
// which makes the search unanchored. The standing candidate has consumed
// nothing, so it never counts as a match: the empty word is not reported.
type Extended struct {
	predicates
	result *compiler.Result
	nfa    *nfa.NFA
	live   []bool
	empty  bool // the pattern accepts nothing

	states *sparse.Pair
	spans  []span // indexed by state, valid for members of states.Cur
	next   []span // indexed by state, valid for members of states.Next

	staged alphabet.Letter
	report Report
	log    *slog.Logger
}

// NewExtended returns a runtime for r, which must be compiled or decoded for
// the extended target. A nil logger discards diagnostics.
func NewExtended(r *compiler.Result, logger *slog.Logger) (*Extended, error) {
	if r.Target != compiler.Extended || r.NFA == nil {
		return nil, fmt.Errorf("%w: extended runtime needs an extended artifact, got %s", ErrTarget, r.Target)
	}
	n := r.NFA
	live := n.Live()
	m := &Extended{
		predicates: predicates{table: r.Atomics},
		result:     r,
		nfa:        n,
		live:       live,
		empty:      !live[n.Start()],
		states:     sparse.NewPair(n.States()),
		spans:      make([]span, n.States()),
		next:       make([]span, n.States()),
		log:        componentLogger(logger, "matcher.extended"),
	}
	m.Reset()
	m.log.Debug("runtime ready",
		slog.Int("atomics", m.AtomicCount()),
		slog.Int("states", n.States()),
		slog.Bool("empty", m.empty))
	return m, nil
}

// Reset discards every candidate but the standing one at the start state
// and clears staged predicates.
func (m *Extended) Reset() {
	m.states.Cur.Clear()
	m.states.Next.Clear()
	m.staged = 0
	m.evaluate()
}

// SetAtomic stages predicate i as true for the next Advance.
func (m *Extended) SetAtomic(i int) error {
	if i < 0 || i >= m.AtomicCount() {
		return fmt.Errorf("%w: %d (have %d)", ErrUnknownAtomic, i, m.AtomicCount())
	}
	m.staged = m.staged.With(i)
	return nil
}

// Advance commits the staged predicates as one event; predicates not staged
// are false. The staging area is empty afterwards.
func (m *Extended) Advance() {
	l := m.staged
	m.staged = 0
	m.AdvanceLetter(l)
}

// AdvanceValues consumes one event given as a dense valuation, discarding
// anything staged. Missing trailing predicates are false and extra entries
// are ignored.
func (m *Extended) AdvanceValues(values []bool) {
	m.staged = 0
	m.AdvanceLetter(m.letter(values))
}

// AdvanceLetter consumes one event given as a packed valuation.
func (m *Extended) AdvanceLetter(l alphabet.Letter) {
	if !m.empty {
		m.step(m.nfa.Start(), span{shortest: 1, longest: 1}, l)
	}
	for _, v := range m.states.Cur.Values() {
		s := m.spans[v]
		m.step(nfa.StateID(v), span{shortest: s.shortest + 1, longest: s.longest + 1}, l)
	}
	m.states.Swap()
	m.spans, m.next = m.next, m.spans
	m.evaluate()
}

// step moves the candidates of q, already aged by one event, along the
// edges whose guard holds l.
func (m *Extended) step(q nfa.StateID, aged span, l alphabet.Letter) {
	for _, e := range m.nfa.Edges(q) {
		if e.Guard.Contains(l) && m.live[e.Next] {
			m.occupy(uint32(e.Next), aged)
		}
	}
}

// occupy records a candidate span in the next generation.
func (m *Extended) occupy(q uint32, s span) {
	if m.states.Next.Insert(q) {
		m.next[q] = s
		return
	}
	m.next[q] = m.next[q].merge(s)
}

// evaluate computes the report of the current generation.
func (m *Extended) evaluate() {
	if m.empty {
		m.report = Report{Status: Failed}
		return
	}
	r := Report{Status: Partial}
	for _, v := range m.states.Cur.Values() {
		s := m.spans[v]
		r.Horizon = max(r.Horizon, s.longest)
		if !m.nfa.IsAccepting(nfa.StateID(v)) {
			continue
		}
		if r.Status != Matched {
			r.Status, r.Shortest, r.Longest = Matched, s.shortest, s.longest
			continue
		}
		r.Shortest = min(r.Shortest, s.shortest)
		r.Longest = max(r.Longest, s.longest)
	}
	m.report = r
}

// Feed consumes one event in either step shape. Anything staged with
// SetAtomic before is discarded. On error nothing is consumed.
func (m *Extended) Feed(s Step) error {
	l, err := s.Letter(m.AtomicCount())
	if err != nil {
		return err
	}
	m.staged = 0
	m.AdvanceLetter(l)
	return nil
}

// Matched returns the report for the events consumed so far.
func (m *Extended) Matched() Report {
	return m.report
}

// Result returns the status of Matched.
func (m *Extended) Result() Status {
	return m.report.Status
}

// Candidates returns the number of occupied NFA states, not counting the
// standing candidate.
func (m *Extended) Candidates() int {
	return m.states.Cur.Len()
}

// ToDot writes the NFA to path as a Graphviz digraph. The runtime state is
// not affected, even when writing fails.
func (m *Extended) ToDot(path string) error {
	return toDot(m.log, path, m.result)
}
