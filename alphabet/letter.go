// Package alphabet defines the event alphabet shared by the compiler, the
// codecs and the runtimes.
//
// Every compiled artifact has an ordered predicate table of n atomic
// predicates. One event assigns true or false to each of them; such a
// valuation is a Letter, packed into a uint32 with bit i holding predicate i.
// The alphabet of an artifact is therefore the 2^n letters, and automaton
// guards are sets of letters (see Set).
package alphabet

// MaxAtomics is the hard upper bound on the number of predicates in one
// artifact. Compilation usually stops far earlier (see compiler.Config).
const MaxAtomics = 20

// Letter is a valuation of all predicates: bit i is set iff predicate i holds.
type Letter uint32

// Has reports whether predicate i holds in l.
func (l Letter) Has(i int) bool {
	return i >= 0 && i < MaxAtomics && l&(1<<uint(i)) != 0
}

// With returns l with predicate i set to true.
func (l Letter) With(i int) Letter {
	if i < 0 || i >= MaxAtomics {
		return l
	}
	return l | 1<<uint(i)
}

// FromValues packs a dense boolean vector into a Letter.
// Entries beyond MaxAtomics are ignored.
func FromValues(values []bool) Letter {
	var l Letter
	for i, v := range values {
		if i >= MaxAtomics {
			break
		}
		if v {
			l |= 1 << uint(i)
		}
	}
	return l
}

// Size returns the number of letters over n predicates.
func Size(n int) int {
	return 1 << uint(n)
}
