package dfa

import (
	"strconv"
	"strings"
)

// Minimize returns the minimal DFA for the language of d, computed by Moore
// partition refinement over the states reachable from the start. States are
// renumbered breadth first from the start, which becomes state 0, so equal
// languages minimize to identical tables.
func (d *DFA) Minimize() *DFA {
	reach := d.reachable()
	n := len(reach)
	pos := make(map[StateID]int, n)
	for i, q := range reach {
		pos[q] = i
	}

	block := make([]int, n)
	for i, q := range reach {
		if d.accept[q] {
			block[i] = 1
		}
	}
	blocks := countDistinct(block)

	keys := make([]string, n)
	var sb strings.Builder
	for {
		for i, q := range reach {
			sb.Reset()
			sb.WriteString(strconv.Itoa(block[i]))
			for _, t := range d.Row(q) {
				sb.WriteByte(',')
				sb.WriteString(strconv.Itoa(block[pos[t]]))
			}
			keys[i] = sb.String()
		}
		ids := make(map[string]int)
		for i, k := range keys {
			id, ok := ids[k]
			if !ok {
				id = len(ids)
				ids[k] = id
			}
			block[i] = id
		}
		if len(ids) == blocks {
			break
		}
		blocks = len(ids)
	}

	// renumber blocks breadth first from the start block
	order := make([]int, blocks)
	for i := range order {
		order[i] = -1
	}
	rep := make([]StateID, 0, blocks)
	order[block[pos[d.start]]] = 0
	rep = append(rep, d.start)
	for i := 0; i < len(rep); i++ {
		for _, t := range d.Row(rep[i]) {
			b := block[pos[t]]
			if order[b] < 0 {
				order[b] = len(rep)
				rep = append(rep, t)
			}
		}
	}

	accept := make([]bool, len(rep))
	trans := make([]StateID, len(rep)*d.letters)
	for i, q := range rep {
		accept[i] = d.accept[q]
		for l, t := range d.Row(q) {
			trans[i*d.letters+l] = StateID(order[block[pos[t]]])
		}
	}
	return &DFA{letters: d.letters, start: 0, accept: accept, trans: trans}
}

// reachable lists the states reachable from the start in discovery order.
func (d *DFA) reachable() []StateID {
	seen := make([]bool, d.States())
	seen[d.start] = true
	out := []StateID{d.start}
	for i := 0; i < len(out); i++ {
		for _, t := range d.Row(out[i]) {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func countDistinct(xs []int) int {
	seen := make(map[int]bool)
	for _, x := range xs {
		seen[x] = true
	}
	return len(seen)
}
