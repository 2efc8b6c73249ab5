// Package dfa provides total deterministic automata over a letter alphabet:
// subset construction from an nfa.NFA (anchored, or unanchored for stream
// search), complement, Moore minimization and conversion back to an NFA.
//
// A DFA stores a dense transition table of States() * Letters() entries, so
// every state has a successor for every letter. Determinization adds an
// explicit non-accepting sink when a letter has no NFA successor, which is
// what makes Complement sound.
package dfa

import (
	"fmt"
	"strings"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/internal/conv"
	"github.com/coregx/sere/nfa"
)

// StateID identifies a DFA state.
type StateID uint32

// DFA is an immutable total deterministic automaton.
type DFA struct {
	letters int
	start   StateID
	accept  []bool
	trans   []StateID // trans[q*letters + l]
}

// New validates a transition table and wraps it as a DFA. trans holds one
// row of letters entries per state; it is not copied.
func New(letters int, start StateID, accept []bool, trans []StateID) (*DFA, error) {
	states := len(accept)
	switch {
	case letters <= 0:
		return nil, &DFAError{Kind: Malformed, Message: "empty alphabet"}
	case states == 0:
		return nil, &DFAError{Kind: Malformed, Message: "no states"}
	case len(trans) != states*letters:
		return nil, &DFAError{Kind: Malformed, Message: fmt.Sprintf("table has %d entries, want %d", len(trans), states*letters)}
	case int(start) >= states:
		return nil, &DFAError{Kind: Malformed, Message: fmt.Sprintf("start state %d out of range", start)}
	}
	for i, t := range trans {
		if int(t) >= states {
			return nil, &DFAError{Kind: Malformed, Message: fmt.Sprintf("state %d letter %d: target %d out of range", i/letters, i%letters, t)}
		}
	}
	return &DFA{letters: letters, start: start, accept: accept, trans: trans}, nil
}

// Letters returns the alphabet size.
func (d *DFA) Letters() int {
	return d.letters
}

// States returns the number of states.
func (d *DFA) States() int {
	return len(d.accept)
}

// Start returns the start state.
func (d *DFA) Start() StateID {
	return d.start
}

// Next returns the successor of q under l. Letters outside the alphabet are
// folded into it by masking, matching how a wider valuation is truncated.
func (d *DFA) Next(q StateID, l alphabet.Letter) StateID {
	return d.trans[int(q)*d.letters+(int(l)&(d.letters-1))]
}

// Row returns the successors of q indexed by letter. The slice aliases the
// table and must not be modified.
func (d *DFA) Row(q StateID) []StateID {
	i := int(q) * d.letters
	return d.trans[i : i+d.letters]
}

// IsAccepting reports whether q is final.
func (d *DFA) IsAccepting(q StateID) bool {
	return d.accept[q]
}

// Accepting returns the final states in ascending order.
func (d *DFA) Accepting() []StateID {
	var out []StateID
	for q, a := range d.accept {
		if a {
			out = append(out, StateID(conv.IntToUint32(q)))
		}
	}
	return out
}

// Accepts runs the whole word from the start state.
func (d *DFA) Accepts(word []alphabet.Letter) bool {
	q := d.start
	for _, l := range word {
		q = d.Next(q, l)
	}
	return d.accept[q]
}

// Live reports, per state, whether some accepting state is reachable from it.
// A state that is not live can never produce a match again.
func (d *DFA) Live() []bool {
	n := d.States()
	rev := make([][]StateID, n)
	for q := 0; q < n; q++ {
		for _, t := range d.Row(StateID(q)) {
			rev[t] = append(rev[t], StateID(q))
		}
	}
	live := make([]bool, n)
	var stack []StateID
	for q, a := range d.accept {
		if a {
			live[q] = true
			stack = append(stack, StateID(q))
		}
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[q] {
			if !live[p] {
				live[p] = true
				stack = append(stack, p)
			}
		}
	}
	return live
}

// Complement returns the DFA of the complementary language. d is total, so
// swapping finality is enough.
func (d *DFA) Complement() *DFA {
	accept := make([]bool, len(d.accept))
	for q, a := range d.accept {
		accept[q] = !a
	}
	return &DFA{letters: d.letters, start: d.start, accept: accept, trans: d.trans}
}

// Guards groups the row of q by target: for every successor, the set of
// letters that lead to it. Targets are returned in ascending order.
func (d *DFA) Guards(q StateID) ([]StateID, []alphabet.Set) {
	idx := make(map[StateID]int)
	var targets []StateID
	var guards []alphabet.Set
	for l, t := range d.Row(q) {
		i, ok := idx[t]
		if !ok {
			i = len(targets)
			idx[t] = i
			targets = append(targets, t)
			guards = append(guards, alphabet.NewSet(d.letters))
		}
		guards[i].Add(alphabet.Letter(l))
	}
	// insertion sort by target, rows have few distinct targets
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && targets[j] < targets[j-1]; j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
			guards[j], guards[j-1] = guards[j-1], guards[j]
		}
	}
	return targets, guards
}

// ToNFA converts d to an equivalent trimmed NFA. A fresh start state takes
// the start row so no edge enters the NFA start.
func (d *DFA) ToNFA() (*nfa.NFA, error) {
	b := nfa.NewBuilder(d.letters, 0)
	base, err := b.AddState(d.accept[d.start])
	if err != nil {
		return nil, err
	}
	for q := range d.accept {
		if _, err := b.AddState(d.accept[q]); err != nil {
			return nil, err
		}
	}
	id := func(q StateID) nfa.StateID { return base + 1 + nfa.StateID(q) }
	for q := range d.accept {
		targets, guards := d.Guards(StateID(q))
		for i, t := range targets {
			b.AddEdge(id(StateID(q)), guards[i], id(t))
			if StateID(q) == d.start {
				b.AddEdge(base, guards[i], id(t))
			}
		}
	}
	b.SetStart(base)
	n, err := b.Build()
	if err != nil {
		return nil, err
	}
	return nfa.Trim(n), nil
}

// String renders the table for debugging, one state per line with the row
// run-length encoded.
func (d *DFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DFA(states=%d, start=%d, letters=%d)\n", d.States(), d.start, d.letters)
	for q := range d.accept {
		mark := " "
		if d.accept[q] {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s%d:", mark, q)
		row := d.Row(StateID(q))
		for i := 0; i < len(row); {
			j := i
			for j < len(row) && row[j] == row[i] {
				j++
			}
			fmt.Fprintf(&b, " %d*%d", row[i], j-i)
			i = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}
