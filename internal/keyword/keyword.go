// Package keyword classifies text lines into predicate valuations.
//
// Every predicate of a pattern is bound to a list of keywords; a line makes
// the predicate true when it contains one of them. All keywords share one
// Aho-Corasick automaton, which rejects the common line with no keyword in a
// single pass and otherwise yields the candidate positions to verify.
package keyword

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/sere/alphabet"
)

var (
	// ErrNoKeywords is returned when a predicate has no keyword.
	ErrNoKeywords = errors.New("keyword: predicate has no keywords")

	// ErrUnknownPredicate is returned for keywords bound to a name that is
	// not a predicate of the pattern.
	ErrUnknownPredicate = errors.New("keyword: unknown predicate")
)

type keyword struct {
	text []byte
	mask alphabet.Letter
}

// Classifier maps lines to valuations. It is immutable and safe for
// concurrent use.
type Classifier struct {
	auto     *ahocorasick.Automaton
	byFirst  map[byte][]keyword
	fold     bool
	keywords int
}

// New builds a classifier for the predicates of table. bindings maps each
// predicate name to its keywords; with fold set, matching ignores ASCII
// case.
func New(table *alphabet.Table, bindings map[string][]string, fold bool) (*Classifier, error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Classifier{byFirst: make(map[byte][]keyword), fold: fold}
	builder := ahocorasick.NewBuilder()
	seen := make(map[string]bool)
	bound := make([]bool, table.Len())
	for _, name := range names {
		idx, ok := table.Index(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPredicate, name)
		}
		if len(bindings[name]) > 0 {
			bound[idx] = true
		}
		for _, text := range bindings[name] {
			if text == "" {
				return nil, fmt.Errorf("keyword: empty keyword for %q", name)
			}
			b := []byte(text)
			if fold {
				b = bytes.ToLower(b)
			}
			kw := keyword{text: b, mask: alphabet.Letter(0).With(idx)}
			c.byFirst[b[0]] = append(c.byFirst[b[0]], kw)
			c.keywords++
			if !seen[string(b)] {
				seen[string(b)] = true
				builder.AddPattern(b)
			}
		}
	}
	for i, ok := range bound {
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoKeywords, table.Name(i))
		}
	}
	if c.keywords == 0 {
		return c, nil
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("keyword: build automaton: %w", err)
	}
	c.auto = auto
	return c, nil
}

// Keywords returns the number of keywords bound.
func (c *Classifier) Keywords() int {
	return c.keywords
}

// Classify returns the valuation of line: predicate i holds iff line
// contains one of its keywords.
func (c *Classifier) Classify(line []byte) alphabet.Letter {
	if c.auto == nil {
		return 0
	}
	if c.fold {
		line = bytes.ToLower(line)
	}
	if !c.auto.IsMatch(line) {
		return 0
	}
	var l alphabet.Letter
	// Find returns the leftmost match at or after at, so stepping one byte
	// past each start visits every position where a keyword begins.
	for at := 0; at < len(line); {
		m := c.auto.Find(line, at)
		if m == nil {
			break
		}
		for _, kw := range c.byFirst[line[m.Start]] {
			if bytes.HasPrefix(line[m.Start:], kw.text) {
				l |= kw.mask
			}
		}
		at = m.Start + 1
	}
	return l
}

// Values returns the valuation of line as a dense vector of width n.
func (c *Classifier) Values(line []byte, n int) []bool {
	l := c.Classify(line)
	out := make([]bool, n)
	for i := range out {
		out[i] = l.Has(i)
	}
	return out
}
