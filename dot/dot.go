// Package dot renders compiled automata as Graphviz digraphs.
//
// Nodes are states and edges are labeled with the guard they cover, written
// as a Boolean formula over the predicate names. Accepting states are drawn
// as double circles. In a DFA, states from which no accepting state can be
// reached are dashed, which makes the sink easy to spot.
//
// The output is deterministic: states appear in ascending order and the
// edges of a state in ascending target order.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/dfa"
	"github.com/coregx/sere/nfa"
)

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// Write renders the automaton of a compiled pattern.
func Write(w io.Writer, r *compiler.Result) error {
	switch {
	case r.DFA != nil:
		return WriteDFA(w, r.DFA, r.Atomics)
	case r.NFA != nil:
		return WriteNFA(w, r.NFA, r.Atomics)
	}
	return fmt.Errorf("dot: result has no automaton")
}

// WriteFile renders the automaton of a compiled pattern into path. On error
// the file is removed rather than left truncated.
func WriteFile(path string, r *compiler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func header(bw *bufio.Writer, name string, start uint32) {
	fmt.Fprintf(bw, "digraph %s {\n", name)
	bw.WriteString("\trankdir=LR;\n")
	bw.WriteString("\tnode [shape=circle];\n")
	bw.WriteString("\t__start [shape=point];\n")
	fmt.Fprintf(bw, "\t__start -> %d;\n", start)
}

// WriteNFA renders n with guards named after the predicates in t.
func WriteNFA(w io.Writer, n *nfa.NFA, t *alphabet.Table) error {
	bw := bufio.NewWriter(w)
	header(bw, "nfa", uint32(n.Start()))
	for q := 0; q < n.States(); q++ {
		if n.IsAccepting(nfa.StateID(q)) {
			fmt.Fprintf(bw, "\t%d [shape=doublecircle];\n", q)
		} else {
			fmt.Fprintf(bw, "\t%d;\n", q)
		}
	}
	for q := 0; q < n.States(); q++ {
		for _, e := range n.Edges(nfa.StateID(q)) {
			fmt.Fprintf(bw, "\t%d -> %d [label=%s];\n", q, e.Next, quote(t.Describe(e.Guard)))
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// WriteDFA renders d with guards named after the predicates in t.
func WriteDFA(w io.Writer, d *dfa.DFA, t *alphabet.Table) error {
	bw := bufio.NewWriter(w)
	header(bw, "dfa", uint32(d.Start()))
	live := d.Live()
	for q := 0; q < d.States(); q++ {
		var attrs []string
		if d.IsAccepting(dfa.StateID(q)) {
			attrs = append(attrs, "shape=doublecircle")
		}
		if !live[q] {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(bw, "\t%d;\n", q)
		} else {
			fmt.Fprintf(bw, "\t%d [%s];\n", q, strings.Join(attrs, ", "))
		}
	}
	for q := 0; q < d.States(); q++ {
		targets, guards := d.Guards(dfa.StateID(q))
		for i, to := range targets {
			fmt.Fprintf(bw, "\t%d -> %d [label=%s];\n", q, to, quote(t.Describe(guards[i])))
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}
