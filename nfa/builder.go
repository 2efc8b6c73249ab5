package nfa

import (
	"github.com/coregx/sere/alphabet"
)

// Builder constructs NFAs incrementally using a low-level API.
// This is what the algebra in ops.go and the DFA conversion use.
//
// Edges with an empty guard are dropped, and parallel edges to the same
// target are merged into one by guard union.
type Builder struct {
	letters int
	limit   int
	states  []State
	start   StateID
}

// NewBuilder creates a builder for automata over an alphabet of the given
// number of letters. A limit of zero or less means no state limit.
func NewBuilder(letters, limit int) *Builder {
	return &Builder{letters: letters, limit: limit, start: InvalidState}
}

// Letters returns the alphabet size.
func (b *Builder) Letters() int {
	return b.letters
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// AddState adds a state and returns its ID. It fails with a *LimitError once
// the builder holds its maximum number of states.
func (b *Builder) AddState(accept bool) (StateID, error) {
	if b.limit > 0 && len(b.states) >= b.limit {
		return InvalidState, &LimitError{Op: "build", Limit: b.limit}
	}
	id := StateID(len(b.states))
	b.states = append(b.states, State{accept: accept})
	return id, nil
}

// SetAccept marks or unmarks id as final.
func (b *Builder) SetAccept(id StateID, accept bool) {
	b.states[id].accept = accept
}

// IsAccepting reports whether id is currently final.
func (b *Builder) IsAccepting(id StateID) bool {
	return b.states[id].accept
}

// SetStart sets the start state
func (b *Builder) SetStart(id StateID) {
	b.start = id
}

// AddEdge adds from --guard--> to.
func (b *Builder) AddEdge(from StateID, guard alphabet.Set, to StateID) {
	if guard.IsEmpty() {
		return
	}
	s := &b.states[from]
	for i := range s.edges {
		if s.edges[i].Next == to {
			s.edges[i].Guard = s.edges[i].Guard.Union(guard)
			return
		}
	}
	s.edges = append(s.edges, Edge{Guard: guard, Next: to})
}

// Validate checks that the start state is set and that every edge targets
// an existing state over the builder's alphabet.
func (b *Builder) Validate() error {
	n := StateID(len(b.states))
	if b.start == InvalidState || b.start >= n {
		return &BuildError{Message: "start state not set", StateID: b.start, Err: ErrInvalidState}
	}
	for i := range b.states {
		for _, e := range b.states[i].edges {
			if e.Next >= n {
				return &BuildError{Message: "edge to unknown state", StateID: StateID(i), Err: ErrInvalidState}
			}
			if e.Guard.Size() != b.letters {
				return &BuildError{Message: "guard over a different alphabet", StateID: StateID(i), Err: ErrAlphabetMismatch}
			}
		}
	}
	return nil
}

// Build validates and finalizes the automaton. The builder must not be used
// afterwards.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	for i := range b.states {
		sortEdges(b.states[i].edges)
	}
	n := &NFA{letters: b.letters, states: b.states, start: b.start}
	b.states = nil
	return n, nil
}

// embed copies the states of n into the builder and returns the old-to-new
// ID mapping. When skipStart is set the start state of n is not copied and
// maps to InvalidState; that is safe because no edge enters it.
func (b *Builder) embed(n *NFA, skipStart bool) ([]StateID, error) {
	m := make([]StateID, len(n.states))
	for i := range n.states {
		if skipStart && StateID(i) == n.start {
			m[i] = InvalidState
			continue
		}
		id, err := b.AddState(n.states[i].accept)
		if err != nil {
			return nil, err
		}
		m[i] = id
	}
	for i := range n.states {
		if m[i] == InvalidState {
			continue
		}
		for _, e := range n.states[i].edges {
			b.AddEdge(m[i], e.Guard, m[e.Next])
		}
	}
	return m, nil
}

// addEdgesOf copies the outgoing edges of src in n to dst, remapping targets.
func (b *Builder) addEdgesOf(dst StateID, n *NFA, src StateID, m []StateID) {
	for _, e := range n.states[src].edges {
		b.AddEdge(dst, e.Guard, m[e.Next])
	}
}
