// Package nfa provides epsilon-free nondeterministic automata over a letter
// alphabet, together with the automaton algebra used to compile patterns.
//
// Every edge carries a guard, the set of letters (predicate valuations) that
// may cross it. NFAs built by this package keep one structural invariant: the
// start state has no incoming edges. The constructions in ops.go rely on it,
// and DFA-to-NFA conversion restores it with a fresh start state.
package nfa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/sere/alphabet"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Edge is a guarded transition.
type Edge struct {
	Guard alphabet.Set
	Next  StateID
}

// State is a single NFA state with its outgoing edges.
type State struct {
	edges  []Edge
	accept bool
}

// Edges returns the outgoing edges, ordered by target.
func (s *State) Edges() []Edge {
	return s.edges
}

// IsAccepting reports whether the state is final.
func (s *State) IsAccepting() bool {
	return s.accept
}

// NFA is an immutable epsilon-free automaton.
type NFA struct {
	letters int
	states  []State
	start   StateID
}

// Letters returns the alphabet size every guard is defined over.
func (n *NFA) Letters() int {
	return n.letters
}

// States returns the number of states.
func (n *NFA) States() int {
	return len(n.states)
}

// Start returns the start state.
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID, or nil when out of range.
func (n *NFA) State(id StateID) *State {
	if int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsAccepting reports whether id is a final state.
func (n *NFA) IsAccepting(id StateID) bool {
	return int(id) < len(n.states) && n.states[id].accept
}

// Accepting returns the final states in ascending order.
func (n *NFA) Accepting() []StateID {
	var out []StateID
	for i := range n.states {
		if n.states[i].accept {
			out = append(out, StateID(i))
		}
	}
	return out
}

// Edges returns the outgoing edges of id.
func (n *NFA) Edges(id StateID) []Edge {
	return n.states[id].edges
}

// IsEmpty reports whether the automaton accepts no word at all.
func (n *NFA) IsEmpty() bool {
	seen := make([]bool, len(n.states))
	stack := []StateID{n.start}
	seen[n.start] = true
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.states[q].accept {
			return false
		}
		for _, e := range n.states[q].edges {
			if !seen[e.Next] {
				seen[e.Next] = true
				stack = append(stack, e.Next)
			}
		}
	}
	return true
}

// Accepts reports whether the whole word is in the language, starting from
// the start state. It is a reference evaluator for tests and tools; the
// matcher runtimes do the incremental, unanchored equivalent.
func (n *NFA) Accepts(word []alphabet.Letter) bool {
	cur := map[StateID]bool{n.start: true}
	for _, l := range word {
		next := make(map[StateID]bool)
		for q := range cur {
			for _, e := range n.states[q].edges {
				if e.Guard.Contains(l) {
					next[e.Next] = true
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = next
	}
	for q := range cur {
		if n.states[q].accept {
			return true
		}
	}
	return false
}

// String renders the automaton one state per line, for debugging.
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA(states=%d, start=%d, letters=%d)\n", len(n.states), n.start, n.letters)
	for i := range n.states {
		s := &n.states[i]
		mark := " "
		if s.accept {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s%d:", mark, i)
		for _, e := range s.edges {
			fmt.Fprintf(&b, " %v->%d", e.Guard.Ranges(), e.Next)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// sortEdges orders edges by target for deterministic output.
func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool { return es[i].Next < es[j].Next })
}
