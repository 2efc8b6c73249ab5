package nfa

import (
	"github.com/coregx/sere/alphabet"
)

// Ops builds automata over one alphabet under a common state limit.
// The zero MaxStates means unlimited.
type Ops struct {
	Letters   int
	MaxStates int
}

func (o Ops) builder() *Builder {
	return NewBuilder(o.Letters, o.MaxStates)
}

func (o Ops) check(ns ...*NFA) error {
	for _, n := range ns {
		if n.letters != o.Letters {
			return &BuildError{Message: "operand over a different alphabet", StateID: InvalidState, Err: ErrAlphabetMismatch}
		}
	}
	return nil
}

// Eps accepts only the empty word.
func (o Ops) Eps() *NFA {
	return &NFA{letters: o.Letters, states: []State{{accept: true}}, start: 0}
}

// Empty accepts nothing.
func (o Ops) Empty() *NFA {
	return &NFA{letters: o.Letters, states: []State{{}}, start: 0}
}

// Symbol accepts the one-letter words whose letter is in guard.
func (o Ops) Symbol(guard alphabet.Set) *NFA {
	if guard.IsEmpty() {
		return o.Empty()
	}
	return &NFA{
		letters: o.Letters,
		states: []State{
			{edges: []Edge{{Guard: guard, Next: 1}}},
			{accept: true},
		},
		start: 0,
	}
}

// Union accepts L(a) ∪ L(b). A fresh start state takes over the outgoing
// edges of both operand starts.
func (o Ops) Union(a, c *NFA) (*NFA, error) {
	if err := o.check(a, c); err != nil {
		return nil, err
	}
	b := o.builder()
	start, err := b.AddState(a.IsAccepting(a.start) || c.IsAccepting(c.start))
	if err != nil {
		return nil, err
	}
	ma, err := b.embed(a, true)
	if err != nil {
		return nil, err
	}
	mc, err := b.embed(c, true)
	if err != nil {
		return nil, err
	}
	b.addEdgesOf(start, a, a.start, ma)
	b.addEdgesOf(start, c, c.start, mc)
	b.SetStart(start)
	return b.Build()
}

// Concat accepts L(a)·L(c). Every final state of a also takes the start
// edges of c, and stays final only when c accepts the empty word.
func (o Ops) Concat(a, c *NFA) (*NFA, error) {
	if err := o.check(a, c); err != nil {
		return nil, err
	}
	b := o.builder()
	ma, err := b.embed(a, false)
	if err != nil {
		return nil, err
	}
	mc, err := b.embed(c, true)
	if err != nil {
		return nil, err
	}
	cEps := c.IsAccepting(c.start)
	for _, f := range a.Accepting() {
		b.addEdgesOf(ma[f], c, c.start, mc)
		b.SetAccept(ma[f], cEps)
	}
	b.SetStart(ma[a.start])
	return b.Build()
}

// Fuse accepts the overlapping concatenation a:c, the words u·x·v where
// u·x is in L(a), x·v is in L(c) and x is a single letter. Each edge of a
// into a final state is paired with each start edge of c under the
// intersection of the two guards.
func (o Ops) Fuse(a, c *NFA) (*NFA, error) {
	if err := o.check(a, c); err != nil {
		return nil, err
	}
	b := o.builder()
	ma, err := b.embed(a, false)
	if err != nil {
		return nil, err
	}
	mc, err := b.embed(c, true)
	if err != nil {
		return nil, err
	}
	for q := range a.states {
		b.SetAccept(ma[q], false)
		for _, e := range a.states[q].edges {
			if !a.states[e.Next].accept {
				continue
			}
			for _, f := range c.states[c.start].edges {
				b.AddEdge(ma[q], e.Guard.Intersect(f.Guard), mc[f.Next])
			}
		}
	}
	b.SetStart(ma[a.start])
	return b.Build()
}

// Star accepts L(a)*. The start becomes final and every final state takes
// the start edges.
func (o Ops) Star(a *NFA) (*NFA, error) {
	return o.loop(a, true)
}

// Plus accepts L(a)+.
func (o Ops) Plus(a *NFA) (*NFA, error) {
	return o.loop(a, a.IsAccepting(a.start))
}

func (o Ops) loop(a *NFA, startAccept bool) (*NFA, error) {
	if err := o.check(a); err != nil {
		return nil, err
	}
	b := o.builder()
	m, err := b.embed(a, false)
	if err != nil {
		return nil, err
	}
	for _, f := range a.Accepting() {
		b.addEdgesOf(m[f], a, a.start, m)
	}
	b.SetAccept(m[a.start], startAccept)
	b.SetStart(m[a.start])
	return b.Build()
}

// Intersect accepts L(a) ∩ L(c) by the product construction over the pairs
// reachable from the pair of start states.
func (o Ops) Intersect(a, c *NFA) (*NFA, error) {
	if err := o.check(a, c); err != nil {
		return nil, err
	}
	type pair struct{ p, q StateID }
	b := o.builder()
	ids := make(map[pair]StateID)
	var queue []pair
	visit := func(pr pair) (StateID, error) {
		if id, ok := ids[pr]; ok {
			return id, nil
		}
		id, err := b.AddState(a.states[pr.p].accept && c.states[pr.q].accept)
		if err != nil {
			return InvalidState, err
		}
		ids[pr] = id
		queue = append(queue, pr)
		return id, nil
	}
	start, err := visit(pair{a.start, c.start})
	if err != nil {
		return nil, err
	}
	for len(queue) > 0 {
		pr := queue[0]
		queue = queue[1:]
		from := ids[pr]
		for _, ea := range a.states[pr.p].edges {
			for _, ec := range c.states[pr.q].edges {
				g := ea.Guard.Intersect(ec.Guard)
				if g.IsEmpty() {
					continue
				}
				to, err := visit(pair{ea.Next, ec.Next})
				if err != nil {
					return nil, err
				}
				b.AddEdge(from, g, to)
			}
		}
	}
	b.SetStart(start)
	return b.Build()
}

// Partial accepts every prefix, the empty one included, of the words of
// L(a). It trims a and makes every remaining state final. When L(a) is
// empty so is the result.
func (o Ops) Partial(a *NFA) (*NFA, error) {
	if err := o.check(a); err != nil {
		return nil, err
	}
	t := Trim(a)
	if t.IsEmpty() {
		return t, nil
	}
	states := make([]State, len(t.states))
	for i := range t.states {
		states[i] = State{edges: t.states[i].edges, accept: true}
	}
	return &NFA{letters: t.letters, states: states, start: t.start}, nil
}
