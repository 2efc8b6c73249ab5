package alphabet

import (
	"math/bits"
	"sort"
	"strings"
)

// cube is a conjunction of literals: predicates in care are fixed to the
// matching bits of value, the rest are free.
type cube struct {
	care, value uint32
}

func (c cube) covers(l Letter) bool {
	return uint32(l)&c.care == c.value
}

// Describe renders a guard as a Boolean formula over the table's predicate
// names, in disjunctive normal form built from prime implicants:
//
//	a && !b || c
//
// The empty set renders as "false", the full set as "true".
func (t *Table) Describe(s Set) string {
	switch {
	case s.IsEmpty():
		return "false"
	case s.IsFull():
		return "true"
	}
	n := t.Len()
	cover := selectCover(s, primes(s, n))
	var b strings.Builder
	for i, c := range cover {
		if i > 0 {
			b.WriteString(" || ")
		}
		first := true
		for p := 0; p < n; p++ {
			bit := uint32(1) << uint(p)
			if c.care&bit == 0 {
				continue
			}
			if !first {
				b.WriteString(" && ")
			}
			first = false
			if c.value&bit == 0 {
				b.WriteByte('!')
			}
			b.WriteString(t.Name(p))
		}
	}
	return b.String()
}

// primes computes the prime implicants of s by repeated merging of cubes
// that differ in exactly one cared-for predicate.
func primes(s Set, n int) []cube {
	all := uint32(Size(n) - 1)
	cur := make(map[cube]bool)
	s.Each(func(l Letter) { cur[cube{care: all, value: uint32(l)}] = true })

	var out []cube
	for len(cur) > 0 {
		next := make(map[cube]bool)
		merged := make(map[cube]bool)
		for c := range cur {
			for care := c.care; care != 0; care &= care - 1 {
				bit := care & -care
				partner := cube{care: c.care, value: c.value ^ bit}
				if !cur[partner] {
					continue
				}
				merged[c], merged[partner] = true, true
				next[cube{care: c.care &^ bit, value: c.value &^ bit}] = true
			}
		}
		for c := range cur {
			if !merged[c] {
				out = append(out, c)
			}
		}
		cur = next
	}
	sortCubes(out)
	return out
}

// selectCover greedily picks primes until every member of s is covered.
func selectCover(s Set, ps []cube) []cube {
	uncovered := make(map[Letter]bool, s.Len())
	s.Each(func(l Letter) { uncovered[l] = true })

	var out []cube
	for len(uncovered) > 0 {
		best, bestN := -1, 0
		for i, c := range ps {
			k := 0
			for l := range uncovered {
				if c.covers(l) {
					k++
				}
			}
			if k > bestN {
				best, bestN = i, k
			}
		}
		if best < 0 {
			break
		}
		c := ps[best]
		for l := range uncovered {
			if c.covers(l) {
				delete(uncovered, l)
			}
		}
		out = append(out, c)
	}
	sortCubes(out)
	return out
}

// sortCubes orders cubes for stable output: by lowest cared-for predicate,
// positive before negated.
func sortCubes(cs []cube) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.care != b.care {
			return bits.Reverse32(a.care) > bits.Reverse32(b.care)
		}
		return bits.Reverse32(a.value) > bits.Reverse32(b.value)
	})
}
