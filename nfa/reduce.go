package nfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/sere/alphabet"
)

// Reduce merges forward-bisimilar states: two states are merged when they
// agree on finality and, for every letter, step into the same set of blocks.
// The start state is kept in a block of its own so the result still has a
// start without incoming edges. Reduce does not change the language.
func Reduce(n *NFA) *NFA {
	block := make([]int, len(n.states))
	blocks := 0
	assign := func(keys []string) {
		ids := make(map[string]int)
		for i, k := range keys {
			id, ok := ids[k]
			if !ok {
				id = len(ids)
				ids[k] = id
			}
			block[i] = id
		}
		blocks = len(ids)
	}

	keys := make([]string, len(n.states))
	for i := range n.states {
		switch {
		case StateID(i) == n.start:
			keys[i] = "s"
		case n.states[i].accept:
			keys[i] = "f"
		default:
			keys[i] = "n"
		}
	}
	assign(keys)

	for {
		for i := range n.states {
			keys[i] = strconv.Itoa(block[i]) + "|" + n.signature(StateID(i), block)
		}
		before := blocks
		assign(keys)
		if blocks == before {
			break
		}
	}
	if blocks == len(n.states) {
		return n
	}
	return n.quotient(block, blocks)
}

// signature describes the outgoing edges of q in terms of target blocks:
// for each block, the union of the guards leading into it.
func (n *NFA) signature(q StateID, block []int) string {
	per := make(map[int]alphabet.Set)
	for _, e := range n.states[q].edges {
		b := block[e.Next]
		if g, ok := per[b]; ok {
			per[b] = g.Union(e.Guard)
		} else {
			per[b] = e.Guard
		}
	}
	targets := make([]int, 0, len(per))
	for b := range per {
		targets = append(targets, b)
	}
	sort.Ints(targets)
	var sb strings.Builder
	for _, b := range targets {
		sb.WriteString(strconv.Itoa(b))
		sb.WriteByte(':')
		sb.WriteString(per[b].Key())
		sb.WriteByte(';')
	}
	return sb.String()
}

// quotient collapses each block to one state and renumbers from the start.
func (n *NFA) quotient(block []int, blocks int) *NFA {
	rep := make([]StateID, blocks)
	for i := range rep {
		rep[i] = InvalidState
	}
	for i := range n.states {
		if rep[block[i]] == InvalidState {
			rep[block[i]] = StateID(i)
		}
	}
	b := NewBuilder(n.letters, 0)
	for _, r := range rep {
		// cannot fail without a limit
		_, _ = b.AddState(n.states[r].accept)
	}
	for bi, r := range rep {
		for _, e := range n.states[r].edges {
			b.AddEdge(StateID(bi), e.Guard, StateID(block[e.Next]))
		}
	}
	b.SetStart(StateID(block[n.start]))
	q, _ := b.Build()
	keep := make([]bool, q.States())
	for i := range keep {
		keep[i] = true
	}
	return q.renumber(keep)
}
