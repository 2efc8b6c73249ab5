package dfa

import (
	"fmt"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/internal/sparse"
	"github.com/coregx/sere/nfa"
)

// Determinize builds a DFA accepting exactly the language of n, by subset
// construction from {n.Start()}. The empty subset becomes the sink.
func Determinize(n *nfa.NFA, cfg Config) (*DFA, error) {
	return determinize(n, cfg, false)
}

// DeterminizeUnanchored builds a DFA for stream search: after any input it
// is accepting iff some suffix of the input is in the language of n. The NFA
// start state is re-injected into every subset, so a match may begin at any
// event.
func DeterminizeUnanchored(n *nfa.NFA, cfg Config) (*DFA, error) {
	return determinize(n, cfg, true)
}

func determinize(n *nfa.NFA, cfg Config, unanchored bool) (*DFA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	letters := n.Letters()
	ix := newStateIndex()
	var accept []bool
	var trans []StateID

	add := func(set []nfa.StateID) (StateID, error) {
		key := ComputeStateKey(set)
		if id, ok := ix.lookup(key, set); ok {
			return id, nil
		}
		if ix.len() >= cfg.MaxStates {
			return 0, &DFAError{
				Kind:    StateLimitExceeded,
				Message: fmt.Sprintf("DFA state limit exceeded: more than %d states", cfg.MaxStates),
			}
		}
		acc := false
		for _, q := range set {
			if n.IsAccepting(q) {
				acc = true
				break
			}
		}
		accept = append(accept, acc)
		trans = append(trans, make([]StateID, letters)...)
		return ix.insert(key, set), nil
	}

	next := sparse.New(n.States())
	start := n.Start()
	if _, err := add([]nfa.StateID{start}); err != nil {
		return nil, err
	}
	for cur := 0; cur < ix.len(); cur++ {
		set := ix.sets[cur]
		for l := 0; l < letters; l++ {
			letter := alphabet.Letter(l)
			next.Clear()
			if unanchored {
				next.Insert(uint32(start))
			}
			for _, q := range set {
				for _, e := range n.Edges(q) {
					if e.Guard.Contains(letter) {
						next.Insert(uint32(e.Next))
					}
				}
			}
			id, err := add(toStateIDs(next.Sorted()))
			if err != nil {
				return nil, err
			}
			trans[cur*letters+l] = id
		}
	}
	return &DFA{letters: letters, start: 0, accept: accept, trans: trans}, nil
}

func toStateIDs(vs []uint32) []nfa.StateID {
	out := make([]nfa.StateID, len(vs))
	for i, v := range vs {
		out[i] = nfa.StateID(v)
	}
	return out
}
