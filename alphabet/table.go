package alphabet

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownAtomic is returned when a predicate name or index is not part of
// a table.
var ErrUnknownAtomic = errors.New("alphabet: unknown atomic predicate")

// ErrDuplicateAtomic is returned when a decoded table names a predicate twice.
var ErrDuplicateAtomic = errors.New("alphabet: duplicate atomic predicate")

// UnknownAtomicError names the predicate that failed to resolve.
type UnknownAtomicError struct {
	Name  string
	Index int
}

func (e *UnknownAtomicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("alphabet: unknown atomic predicate %q", e.Name)
	}
	return fmt.Sprintf("alphabet: atomic index %d out of range", e.Index)
}

func (e *UnknownAtomicError) Unwrap() error {
	return ErrUnknownAtomic
}

// Normalize returns the canonical (NFC) form of a predicate name.
// Two spellings of the same name always resolve to the same predicate.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// Table is the ordered predicate table of an artifact. Predicate i is the
// i-th distinct name interned.
type Table struct {
	names []string
	index map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// TableOf builds a table from an ordered name list, as read from an artifact.
func TableOf(names []string) (*Table, error) {
	t := NewTable()
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("alphabet: empty predicate name")
		}
		key := Normalize(n)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAtomic, n)
		}
		t.index[key] = len(t.names)
		t.names = append(t.names, key)
	}
	return t, nil
}

// Intern returns the index of name, appending it when new.
func (t *Table) Intern(name string) int {
	key := Normalize(name)
	if i, ok := t.index[key]; ok {
		return i
	}
	i := len(t.names)
	t.index[key] = i
	t.names = append(t.names, key)
	return i
}

// Index returns the index of name.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[Normalize(name)]
	return i, ok
}

// Resolve maps names to indices, failing on the first unknown one.
func (t *Table) Resolve(names ...string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, n := range names {
		i, ok := t.Index(n)
		if !ok {
			return nil, &UnknownAtomicError{Name: n}
		}
		out = append(out, i)
	}
	return out, nil
}

// Name returns the name of predicate i, or "" when out of range.
func (t *Table) Name(i int) string {
	if i < 0 || i >= len(t.names) {
		return ""
	}
	return t.names[i]
}

// Len returns the number of predicates.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns a copy of the predicate names in index order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Letters returns the alphabet size, 2^Len().
func (t *Table) Letters() int {
	return Size(len(t.names))
}
