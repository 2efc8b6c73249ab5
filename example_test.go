package sere_test

import (
	"errors"
	"fmt"

	"github.com/coregx/sere"
	"github.com/coregx/sere/matcher"
	"github.com/coregx/sere/syntax"
)

// ExampleCompile demonstrates compiling and running a simple pattern.
func ExampleCompile() {
	art, err := sere.Compile("a ; b", sere.Simple)
	if err != nil {
		panic(err)
	}
	m, err := sere.Load(art.Content())
	if err != nil {
		panic(err)
	}
	m.Advance([]bool{true, false})
	m.Advance([]bool{true, true})
	fmt.Println(m.Result())
	// Output: matched
}

// ExampleCompile_syntaxError shows the position carried by a syntax error.
func ExampleCompile_syntaxError() {
	_, err := sere.Compile("a;;", sere.Simple)
	var syntaxErr *syntax.Error
	if errors.As(err, &syntaxErr) {
		fmt.Println(syntaxErr.Line, syntaxErr.Column, errors.Is(err, syntax.ErrMissingOperand))
	}
	// Output: 1 3 true
}

// ExampleLoadExtended demonstrates match spans and the horizon.
func ExampleLoadExtended() {
	art := sere.MustCompile("a ; b", sere.Extended)
	m, err := sere.LoadExtended(art.Content())
	if err != nil {
		panic(err)
	}
	a, _ := m.Index("a")
	b, _ := m.Index("b")

	_ = m.SetAtomic(a)
	m.Advance()
	fmt.Println(m.Matched())

	_ = m.SetAtomic(a)
	_ = m.SetAtomic(b)
	m.Advance()
	fmt.Println(m.Matched())
	// Output:
	// partial horizon=1
	// matched shortest=2 longest=2 horizon=2
}

// ExampleArtifact_Atomics shows that predicates are numbered in order of
// first appearance.
func ExampleArtifact_Atomics() {
	art := sere.MustCompile("(checkout | cart) ; !cart", sere.Simple)
	fmt.Println(art.Atomics())
	// Output: [checkout cart]
}

// ExampleLoadExtended_unanchored shows that a match can start at any event.
func ExampleLoadExtended_unanchored() {
	m, _ := sere.LoadExtended(sere.MustCompile("purchase", sere.Extended).Content())
	_ = m.Feed(matcher.Valuation(false))
	_ = m.Feed(matcher.Staged(0))
	fmt.Println(m.Matched())
	// Output: matched shortest=1 longest=1 horizon=1
}
