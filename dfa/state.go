package dfa

import (
	"hash/fnv"
	"slices"

	"github.com/coregx/sere/nfa"
)

// StateKey is a hash of a sorted set of NFA states, used to find an existing
// DFA state during subset construction.
type StateKey uint64

// ComputeStateKey hashes a sorted set of NFA states with FNV-1a.
func ComputeStateKey(sorted []nfa.StateID) StateKey {
	if len(sorted) == 0 {
		return StateKey(0)
	}
	h := fnv.New64a()
	var buf [4]byte
	for _, sid := range sorted {
		buf[0] = byte(sid)
		buf[1] = byte(sid >> 8)
		buf[2] = byte(sid >> 16)
		buf[3] = byte(sid >> 24)
		// hash.Hash.Write never returns an error per documentation
		_, _ = h.Write(buf[:])
	}
	return StateKey(h.Sum64())
}

// stateIndex maps NFA state sets to DFA state IDs. Hash collisions are
// resolved by comparing the sets themselves.
type stateIndex struct {
	buckets map[StateKey][]StateID
	sets    [][]nfa.StateID
}

func newStateIndex() *stateIndex {
	return &stateIndex{buckets: make(map[StateKey][]StateID)}
}

// lookup returns the DFA state for set, if already known.
func (ix *stateIndex) lookup(key StateKey, set []nfa.StateID) (StateID, bool) {
	for _, id := range ix.buckets[key] {
		if slices.Equal(ix.sets[id], set) {
			return id, true
		}
	}
	return 0, false
}

// insert registers set as the next DFA state and returns its ID.
func (ix *stateIndex) insert(key StateKey, set []nfa.StateID) StateID {
	id := StateID(len(ix.sets))
	ix.sets = append(ix.sets, set)
	ix.buckets[key] = append(ix.buckets[key], id)
	return id
}

func (ix *stateIndex) len() int {
	return len(ix.sets)
}
