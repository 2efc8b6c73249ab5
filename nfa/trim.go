package nfa

// Trim removes the states that are not accessible from the start state or
// from which no final state can be reached. The result is renumbered in
// breadth-first order from the start, which becomes state 0. An automaton
// with an empty language trims to a single non-accepting start state.
func Trim(n *NFA) *NFA {
	acc := n.accessible()
	co := n.coaccessible()
	if !co[n.start] {
		return &NFA{letters: n.letters, states: []State{{}}, start: 0}
	}
	keep := make([]bool, len(n.states))
	for i := range keep {
		keep[i] = acc[i] && co[i]
	}
	return n.renumber(keep)
}

func (n *NFA) accessible() []bool {
	seen := make([]bool, len(n.states))
	seen[n.start] = true
	stack := []StateID{n.start}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.states[q].edges {
			if !seen[e.Next] {
				seen[e.Next] = true
				stack = append(stack, e.Next)
			}
		}
	}
	return seen
}

func (n *NFA) coaccessible() []bool {
	rev := make([][]StateID, len(n.states))
	for i := range n.states {
		for _, e := range n.states[i].edges {
			rev[e.Next] = append(rev[e.Next], StateID(i))
		}
	}
	seen := make([]bool, len(n.states))
	var stack []StateID
	for i := range n.states {
		if n.states[i].accept {
			seen[i] = true
			stack = append(stack, StateID(i))
		}
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[q] {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return seen
}

// renumber keeps the states marked in keep (the start must be among them),
// visiting them breadth first from the start. Edges into dropped states are
// removed.
func (n *NFA) renumber(keep []bool) *NFA {
	m := make([]StateID, len(n.states))
	for i := range m {
		m[i] = InvalidState
	}
	order := []StateID{n.start}
	m[n.start] = 0
	for i := 0; i < len(order); i++ {
		for _, e := range n.states[order[i]].edges {
			if keep[e.Next] && m[e.Next] == InvalidState {
				m[e.Next] = StateID(len(order))
				order = append(order, e.Next)
			}
		}
	}
	states := make([]State, len(order))
	for i, old := range order {
		src := &n.states[old]
		dst := &states[i]
		dst.accept = src.accept
		for _, e := range src.edges {
			if m[e.Next] != InvalidState {
				dst.edges = append(dst.edges, Edge{Guard: e.Guard, Next: m[e.Next]})
			}
		}
		sortEdges(dst.edges)
	}
	return &NFA{letters: n.letters, states: states, start: 0}
}

// Live reports, per state, whether an accepting state is reachable from it.
func (n *NFA) Live() []bool {
	return n.coaccessible()
}
