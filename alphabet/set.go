package alphabet

import (
	"math/bits"
	"strings"
)

// Set is a set of letters over an alphabet of fixed size.
//
// Sets are values: the combinators (Union, Intersect, Complement) return fresh
// sets and never modify their receivers. Add and AddRange mutate in place and
// are meant for building a set before it is shared.
type Set struct {
	size  int
	words []uint64
}

// NewSet returns an empty set over an alphabet of size letters.
func NewSet(size int) Set {
	return Set{size: size, words: make([]uint64, (size+63)/64)}
}

// Full returns the set of all letters, the guard of `true`.
func Full(size int) Set {
	s := NewSet(size)
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	s.trim()
	return s
}

// Atom returns the letters in which predicate i holds.
func Atom(size, i int) Set {
	s := NewSet(size)
	bit := 1 << uint(i)
	for l := 0; l < size; l++ {
		if l&bit != 0 {
			s.words[l>>6] |= 1 << uint(l&63)
		}
	}
	return s
}

// trim clears the bits past the end of the alphabet.
func (s *Set) trim() {
	if r := s.size & 63; r != 0 && len(s.words) > 0 {
		s.words[len(s.words)-1] &= (1 << uint(r)) - 1
	}
}

// Size returns the alphabet size (not the number of members; see Len).
func (s Set) Size() int {
	return s.size
}

// Contains reports whether l is a member.
func (s Set) Contains(l Letter) bool {
	if int(l) >= s.size {
		return false
	}
	return s.words[l>>6]&(1<<uint(l&63)) != 0
}

// Add inserts l. Letters outside the alphabet are ignored.
func (s *Set) Add(l Letter) {
	if int(l) < s.size {
		s.words[l>>6] |= 1 << uint(l&63)
	}
}

// AddRange inserts the letters in [lo, hi).
func (s *Set) AddRange(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > s.size {
		hi = s.size
	}
	for l := lo; l < hi; l++ {
		s.words[l>>6] |= 1 << uint(l&63)
	}
}

// Union returns s ∪ o. Both sets must share an alphabet.
func (s Set) Union(o Set) Set {
	r := NewSet(s.size)
	for i := range r.words {
		r.words[i] = s.words[i] | o.words[i]
	}
	return r
}

// Intersect returns s ∩ o. Both sets must share an alphabet.
func (s Set) Intersect(o Set) Set {
	r := NewSet(s.size)
	for i := range r.words {
		r.words[i] = s.words[i] & o.words[i]
	}
	return r
}

// Complement returns the letters not in s.
func (s Set) Complement() Set {
	r := NewSet(s.size)
	for i := range r.words {
		r.words[i] = ^s.words[i]
	}
	r.trim()
	return r
}

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsFull reports whether s contains every letter.
func (s Set) IsFull() bool {
	return s.Len() == s.size
}

// Len returns the number of members.
func (s Set) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Equal reports whether s and o have the same alphabet and members.
func (s Set) Equal(o Set) bool {
	if s.size != o.size {
		return false
	}
	for i := range s.words {
		if s.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Each calls f for every member in ascending order.
func (s Set) Each(f func(Letter)) {
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			f(Letter(i<<6 | b))
			w &= w - 1
		}
	}
}

// Range is a half-open interval of letters [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Ranges returns the members as sorted, disjoint, non-adjacent ranges.
// This is the run-length form the codecs persist.
func (s Set) Ranges() []Range {
	var out []Range
	lo := -1
	for l := 0; l < s.size; l++ {
		in := s.words[l>>6]&(1<<uint(l&63)) != 0
		switch {
		case in && lo < 0:
			lo = l
		case !in && lo >= 0:
			out = append(out, Range{lo, l})
			lo = -1
		}
	}
	if lo >= 0 {
		out = append(out, Range{lo, s.size})
	}
	return out
}

// Key returns a string that identifies the members of s; equal sets over the
// same alphabet have equal keys. It is used to hash guards.
func (s Set) Key() string {
	var b strings.Builder
	b.Grow(len(s.words) * 8)
	for _, w := range s.words {
		for k := 0; k < 8; k++ {
			b.WriteByte(byte(w >> (8 * uint(k))))
		}
	}
	return b.String()
}
