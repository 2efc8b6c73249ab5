package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/sere/alphabet"
)

// Two predicates, a (bit 0) and b (bit 1): four letters.
const letters = 4

var ops = Ops{Letters: letters}

func atom(i int) alphabet.Set { return alphabet.Atom(letters, i) }

// lang is a reference language, decided per word.
type lang func(w []alphabet.Letter) bool

// words enumerates every word of length 0..maxLen.
func words(maxLen int) [][]alphabet.Letter {
	out := [][]alphabet.Letter{{}}
	layer := [][]alphabet.Letter{{}}
	for n := 1; n <= maxLen; n++ {
		var next [][]alphabet.Letter
		for _, w := range layer {
			for l := 0; l < letters; l++ {
				nw := append(append([]alphabet.Letter(nil), w...), alphabet.Letter(l))
				next = append(next, nw)
			}
		}
		out = append(out, next...)
		layer = next
	}
	return out
}

func single(i int) lang {
	return func(w []alphabet.Letter) bool { return len(w) == 1 && w[0].Has(i) }
}

func concatL(x, y lang) lang {
	return func(w []alphabet.Letter) bool {
		for k := 0; k <= len(w); k++ {
			if x(w[:k]) && y(w[k:]) {
				return true
			}
		}
		return false
	}
}

func starL(x lang) lang {
	var f lang
	f = func(w []alphabet.Letter) bool {
		if len(w) == 0 {
			return true
		}
		for k := 1; k <= len(w); k++ {
			if x(w[:k]) && f(w[k:]) {
				return true
			}
		}
		return false
	}
	return f
}

func fuseL(x, y lang) lang {
	return func(w []alphabet.Letter) bool {
		for k := 1; k <= len(w); k++ {
			if x(w[:k]) && y(w[k-1:]) {
				return true
			}
		}
		return false
	}
}

func partialL(x lang, maxLen int) lang {
	var in [][]alphabet.Letter
	for _, u := range words(maxLen) {
		if x(u) {
			in = append(in, u)
		}
	}
	return func(w []alphabet.Letter) bool {
	next:
		for _, u := range in {
			if len(u) < len(w) {
				continue
			}
			for i := range w {
				if u[i] != w[i] {
					continue next
				}
			}
			return true
		}
		return false
	}
}

// mustFor returns a helper that fails t when a construction errors.
func mustFor(t *testing.T) func(*NFA, error) *NFA {
	return func(n *NFA, err error) *NFA {
		t.Helper()
		if err != nil {
			t.Fatalf("construction failed: %v", err)
		}
		return n
	}
}

func checkLang(t *testing.T, name string, n *NFA, want lang, maxLen int) {
	t.Helper()
	for _, w := range words(maxLen) {
		if got := n.Accepts(w); got != want(w) {
			t.Fatalf("%s: Accepts(%v) = %v, want %v\n%s", name, w, got, want(w), n)
		}
	}
	checkStartInvariant(t, name, n)
}

func checkStartInvariant(t *testing.T, name string, n *NFA) {
	t.Helper()
	for i := 0; i < n.States(); i++ {
		for _, e := range n.Edges(StateID(i)) {
			if e.Next == n.Start() {
				t.Fatalf("%s: edge %d -> start %d", name, i, e.Next)
			}
		}
	}
}

func TestBasicAutomata(t *testing.T) {
	checkLang(t, "eps", ops.Eps(), func(w []alphabet.Letter) bool { return len(w) == 0 }, 3)
	checkLang(t, "empty", ops.Empty(), func([]alphabet.Letter) bool { return false }, 3)
	checkLang(t, "a", ops.Symbol(atom(0)), single(0), 3)
	checkLang(t, "false", ops.Symbol(alphabet.NewSet(letters)), func([]alphabet.Letter) bool { return false }, 3)
	if !ops.Empty().IsEmpty() || ops.Eps().IsEmpty() {
		t.Errorf("IsEmpty mismatch")
	}
}

func TestAlgebra(t *testing.T) {
	must := mustFor(t)
	a, b := ops.Symbol(atom(0)), ops.Symbol(atom(1))
	la, lb := single(0), single(1)
	eps := func(w []alphabet.Letter) bool { return len(w) == 0 }

	ab := must(ops.Concat(a, b))
	checkLang(t, "a;b", ab, concatL(la, lb), 4)

	aOrB := must(ops.Union(a, b))
	checkLang(t, "a|b", aOrB, func(w []alphabet.Letter) bool { return la(w) || lb(w) }, 3)

	aStar := must(ops.Star(a))
	checkLang(t, "a[*]", aStar, starL(la), 4)

	aPlus := must(ops.Plus(a))
	checkLang(t, "a[+]", aPlus, func(w []alphabet.Letter) bool { return len(w) > 0 && starL(la)(w) }, 4)

	abStar := must(ops.Star(ab))
	checkLang(t, "(a;b)[*]", abStar, starL(concatL(la, lb)), 5)

	epsOrA := must(ops.Union(ops.Eps(), a))
	checkLang(t, "()|a", epsOrA, func(w []alphabet.Letter) bool { return eps(w) || la(w) }, 3)

	plusEps := must(ops.Plus(epsOrA))
	checkLang(t, "(()|a)[+]", plusEps, starL(la), 4)

	catEps := must(ops.Concat(epsOrA, b))
	checkLang(t, "(()|a);b", catEps, concatL(func(w []alphabet.Letter) bool { return eps(w) || la(w) }, lb), 4)

	catEps2 := must(ops.Concat(a, epsOrA))
	checkLang(t, "a;(()|a)", catEps2, concatL(la, func(w []alphabet.Letter) bool { return eps(w) || la(w) }), 4)

	fused := must(ops.Fuse(ab, must(ops.Concat(b, a))))
	checkLang(t, "(a;b):(b;a)", fused, fuseL(concatL(la, lb), concatL(lb, la)), 4)

	fuseStar := must(ops.Fuse(aStar, b))
	checkLang(t, "a[*]:b", fuseStar, fuseL(starL(la), lb), 4)

	both := must(ops.Intersect(aStar, must(ops.Star(b))))
	checkLang(t, "a[*]&b[*]", both, func(w []alphabet.Letter) bool { return starL(la)(w) && starL(lb)(w) }, 4)

	part := must(ops.Partial(abStar))
	checkLang(t, "PARTIAL((a;b)[*])", part, partialL(starL(concatL(la, lb)), 6), 4)

	partEmpty := must(ops.Partial(ops.Empty()))
	if !partEmpty.IsEmpty() {
		t.Errorf("PARTIAL(empty) is not empty")
	}
}

func TestAlphabetMismatch(t *testing.T) {
	other := Ops{Letters: 8}.Symbol(alphabet.Atom(8, 2))
	if _, err := ops.Concat(ops.Eps(), other); !errors.Is(err, ErrAlphabetMismatch) {
		t.Errorf("err = %v, want ErrAlphabetMismatch", err)
	}
}

func TestStateLimit(t *testing.T) {
	limited := Ops{Letters: letters, MaxStates: 4}
	a := limited.Symbol(atom(0))
	ab, err := limited.Concat(a, a)
	if err != nil {
		t.Fatalf("concat within limit: %v", err)
	}
	_, err = limited.Concat(ab, ab)
	if !errors.Is(err, ErrTooManyStates) {
		t.Fatalf("err = %v, want ErrTooManyStates", err)
	}
	var le *LimitError
	if !errors.As(err, &le) || le.Limit != 4 {
		t.Errorf("LimitError = %+v", le)
	}
}

func TestBuilderValidate(t *testing.T) {
	b := NewBuilder(letters, 0)
	if _, err := b.AddState(false); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("missing start: err = %v", err)
	}

	b = NewBuilder(letters, 0)
	s, _ := b.AddState(false)
	f, _ := b.AddState(true)
	b.SetStart(s)
	b.AddEdge(s, atom(0), f)
	b.AddEdge(s, atom(1), f)
	b.AddEdge(s, alphabet.NewSet(letters), s)
	n, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	edges := n.Edges(s)
	if len(edges) != 1 || !edges[0].Guard.Equal(atom(0).Union(atom(1))) {
		t.Errorf("parallel edges not merged: %v", edges)
	}

	b = NewBuilder(letters, 0)
	s, _ = b.AddState(false)
	b.SetStart(s)
	b.AddEdge(s, alphabet.Full(8), s)
	if _, err := b.Build(); !errors.Is(err, ErrAlphabetMismatch) {
		t.Errorf("foreign guard: err = %v", err)
	}
}

func TestTrim(t *testing.T) {
	must := mustFor(t)
	a, b := ops.Symbol(atom(0)), ops.Symbol(atom(1))
	dead := must(ops.Concat(a, ops.Empty()))
	u := must(ops.Union(dead, b))
	tr := Trim(u)
	checkLang(t, "trim", tr, single(1), 3)
	if tr.States() != 2 || tr.Start() != 0 {
		t.Errorf("trimmed to %d states, start %d:\n%s", tr.States(), tr.Start(), tr)
	}

	empty := Trim(dead)
	if empty.States() != 1 || empty.IsAccepting(0) || len(empty.Edges(0)) != 0 {
		t.Errorf("empty language trimmed to\n%s", empty)
	}
}

func TestReduce(t *testing.T) {
	must := mustFor(t)
	a := ops.Symbol(atom(0))
	aa := must(ops.Union(a, a))
	r := Reduce(Trim(aa))
	checkLang(t, "reduce a|a", r, single(0), 3)
	if r.States() != 2 {
		t.Errorf("a|a reduced to %d states:\n%s", r.States(), r)
	}

	b := ops.Symbol(atom(1))
	x := must(ops.Union(must(ops.Concat(a, b)), must(ops.Concat(b, b))))
	y := must(ops.Star(x))
	r = Reduce(Trim(y))
	checkLang(t, "reduce ((a;b)|(b;b))[*]", r, starL(func(w []alphabet.Letter) bool {
		return len(w) == 2 && (w[0].Has(0) || w[0].Has(1)) && w[1].Has(1)
	}), 5)
	if r.States() > y.States() {
		t.Errorf("reduction grew the automaton")
	}
}

func BenchmarkIntersect(b *testing.B) {
	x := ops.Symbol(atom(0))
	s, _ := ops.Star(x)
	for i := 0; i < 4; i++ {
		s, _ = ops.Concat(s, s)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ops.Intersect(s, s); err != nil {
			b.Fatal(err)
		}
	}
}
