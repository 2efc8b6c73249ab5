// Package sparse provides a sparse set of automaton state IDs.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of its members in insertion order. The matcher uses it
// to track the states occupied by live candidates, and subset construction uses
// it to collect successor sets without allocating per letter.
package sparse

import "sort"

// Set is a set of uint32 values drawn from [0, capacity).
//
// The sparse array maps a value to its index in the dense array. Stale entries
// in sparse are harmless: membership is confirmed by cross-checking dense.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New creates an empty set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds v to the set and reports whether it was absent.
// Panics if v is outside the set's capacity.
func (s *Set) Insert(v uint32) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = uint32(len(s.dense))
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v uint32) bool {
	if uint64(v) >= uint64(len(s.sparse)) {
		return false
	}
	i := s.sparse[v]
	return uint64(i) < uint64(len(s.dense)) && s.dense[i] == v
}

// Clear removes all members in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return len(s.dense) == 0
}

// Capacity returns the exclusive upper bound on storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Sorted returns a sorted copy of the members.
// Subset construction uses it as the canonical form of a state set.
func (s *Set) Sorted() []uint32 {
	out := make([]uint32, len(s.dense))
	copy(out, s.dense)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pair is a double buffer of sets: Cur holds the current step, Next collects
// the successors. Swap exchanges them and clears the new Next.
type Pair struct {
	Cur  *Set
	Next *Set
}

// NewPair creates two empty sets of the given capacity.
func NewPair(capacity int) *Pair {
	return &Pair{Cur: New(capacity), Next: New(capacity)}
}

// Swap promotes Next to Cur and leaves an empty Next.
func (p *Pair) Swap() {
	p.Cur, p.Next = p.Next, p.Cur
	p.Next.Clear()
}
