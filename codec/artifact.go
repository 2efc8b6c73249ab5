package codec

import (
	"errors"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/dfa"
	"github.com/coregx/sere/internal/conv"
	"github.com/coregx/sere/nfa"
)

// run is a stretch of count consecutive letters with the same DFA target.
type run struct {
	target, count uint32
}

// edge is a persisted NFA edge with its guard as letter ranges.
type edge struct {
	next   uint32
	ranges []alphabet.Range
}

// artifact is the encoding-independent content of a serialized pattern.
type artifact struct {
	target    compiler.Target
	atomics   []string
	states    int
	start     uint32
	accepting []uint32
	runs      [][]run  // simple target, one row per state
	edges     [][]edge // extended target, one list per state
}

func fromResult(r *compiler.Result) (*artifact, error) {
	a := &artifact{target: r.Target, atomics: r.Atomics.Names()}
	switch {
	case r.Target == compiler.Simple && r.DFA != nil:
		d := r.DFA
		a.states = d.States()
		a.start = uint32(d.Start())
		for _, q := range d.Accepting() {
			a.accepting = append(a.accepting, uint32(q))
		}
		a.runs = make([][]run, d.States())
		for q := range a.runs {
			a.runs[q] = encodeRuns(d.Row(dfa.StateID(conv.IntToUint32(q))))
		}
	case r.Target == compiler.Extended && r.NFA != nil:
		n := r.NFA
		a.states = n.States()
		a.start = uint32(n.Start())
		for _, q := range n.Accepting() {
			a.accepting = append(a.accepting, uint32(q))
		}
		a.edges = make([][]edge, n.States())
		for q := range a.edges {
			for _, e := range n.Edges(nfa.StateID(conv.IntToUint32(q))) {
				a.edges[q] = append(a.edges[q], edge{next: uint32(e.Next), ranges: e.Guard.Ranges()})
			}
		}
	default:
		return nil, errors.New("codec: result has no automaton for its target")
	}
	return a, nil
}

func encodeRuns(row []dfa.StateID) []run {
	var out []run
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		out = append(out, run{target: uint32(row[i]), count: conv.IntToUint32(j - i)})
		i = j
	}
	return out
}

// build validates the artifact and turns it back into a compiled pattern.
func (a *artifact) build(enc Encoding) (*compiler.Result, error) {
	if len(a.atomics) > alphabet.MaxAtomics {
		return nil, formatErrorf(enc, "%d atomics, at most %d supported", len(a.atomics), alphabet.MaxAtomics)
	}
	table, err := alphabet.TableOf(a.atomics)
	if err != nil {
		return nil, &FormatError{Encoding: enc, Msg: "atomics", Err: err}
	}
	if a.states < 1 {
		return nil, formatErrorf(enc, "no states")
	}
	rows := len(a.runs)
	if a.target == compiler.Extended {
		rows = len(a.edges)
	}
	// every state-sized allocation below is bounded by the rows present
	if a.states != rows {
		return nil, formatErrorf(enc, "%d states, %d transition rows", a.states, rows)
	}
	if int(a.start) >= a.states {
		return nil, formatErrorf(enc, "start state %d out of range", a.start)
	}
	accept := make([]bool, a.states)
	for _, q := range a.accepting {
		if int(q) >= a.states {
			return nil, formatErrorf(enc, "accepting state %d out of range", q)
		}
		if accept[q] {
			return nil, formatErrorf(enc, "accepting state %d listed twice", q)
		}
		accept[q] = true
	}

	res := &compiler.Result{Target: a.target, Atomics: table}
	letters := table.Letters()
	switch a.target {
	case compiler.Simple:
		d, err := a.buildDFA(enc, letters, accept)
		if err != nil {
			return nil, err
		}
		res.DFA = d
	case compiler.Extended:
		n, err := a.buildNFA(enc, letters, accept)
		if err != nil {
			return nil, err
		}
		res.NFA = n
	default:
		return nil, formatErrorf(enc, "unknown format tag")
	}
	return res, nil
}

func (a *artifact) buildDFA(enc Encoding, letters int, accept []bool) (*dfa.DFA, error) {
	if a.edges != nil || len(a.runs) != a.states {
		return nil, formatErrorf(enc, "simple artifact needs %d transition rows, has %d", a.states, len(a.runs))
	}
	trans := make([]dfa.StateID, 0, a.states*letters)
	for q, row := range a.runs {
		filled := 0
		for _, r := range row {
			if r.count == 0 || int(r.count) > letters-filled {
				return nil, formatErrorf(enc, "state %d: runs do not cover %d letters", q, letters)
			}
			if int(r.target) >= a.states {
				return nil, formatErrorf(enc, "state %d: target %d out of range", q, r.target)
			}
			for k := uint32(0); k < r.count; k++ {
				trans = append(trans, dfa.StateID(r.target))
			}
			filled += int(r.count)
		}
		if filled != letters {
			return nil, formatErrorf(enc, "state %d: runs cover %d of %d letters", q, filled, letters)
		}
	}
	d, err := dfa.New(letters, dfa.StateID(a.start), accept, trans)
	if err != nil {
		return nil, &FormatError{Encoding: enc, Msg: "transition table", Err: err}
	}
	return d, nil
}

func (a *artifact) buildNFA(enc Encoding, letters int, accept []bool) (*nfa.NFA, error) {
	if a.runs != nil || len(a.edges) != a.states {
		return nil, formatErrorf(enc, "extended artifact needs %d edge lists, has %d", a.states, len(a.edges))
	}
	b := nfa.NewBuilder(letters, 0)
	for q := 0; q < a.states; q++ {
		// cannot fail without a limit
		_, _ = b.AddState(accept[q])
	}
	for q, es := range a.edges {
		for _, e := range es {
			if int(e.next) >= a.states {
				return nil, formatErrorf(enc, "state %d: edge to unknown state %d", q, e.next)
			}
			guard := alphabet.NewSet(letters)
			prev := 0
			for _, r := range e.ranges {
				if r.Lo < prev || r.Lo >= r.Hi || r.Hi > letters {
					return nil, formatErrorf(enc, "state %d: guard ranges must be sorted, disjoint and within %d letters", q, letters)
				}
				guard.AddRange(r.Lo, r.Hi)
				prev = r.Hi
			}
			if guard.IsEmpty() {
				return nil, formatErrorf(enc, "state %d: empty guard", q)
			}
			b.AddEdge(nfa.StateID(conv.IntToUint32(q)), guard, nfa.StateID(e.next))
		}
	}
	b.SetStart(nfa.StateID(a.start))
	n, err := b.Build()
	if err != nil {
		return nil, &FormatError{Encoding: enc, Msg: "edges", Err: err}
	}
	return n, nil
}
