package matcher

import (
	"fmt"

	"github.com/coregx/sere/alphabet"
)

// StepKind tells how a Step carries its event.
type StepKind uint8

const (
	// ValuationStep carries a dense valuation ordered by predicate index.
	ValuationStep StepKind = iota
	// StagedStep carries the indices of the predicates that hold.
	StagedStep
)

// Step is one event, in one of two shapes: a full valuation or a list of
// predicates staged true. Both runtimes accept both shapes through Feed.
type Step struct {
	kind   StepKind
	values []bool
	ids    []int
}

// Valuation returns a step holding one value per predicate.
func Valuation(values ...bool) Step {
	return Step{kind: ValuationStep, values: values}
}

// Staged returns a step in which exactly the listed predicates hold.
func Staged(ids ...int) Step {
	return Step{kind: StagedStep, ids: ids}
}

// Kind returns the shape of the step.
func (s Step) Kind() StepKind {
	return s.kind
}

// Letter packs the step for an alphabet of width predicates. A valuation
// must have exactly width values and staged indices must be in range.
func (s Step) Letter(width int) (alphabet.Letter, error) {
	switch s.kind {
	case ValuationStep:
		if len(s.values) != width {
			return 0, fmt.Errorf("%w: got %d values, want %d", ErrWidth, len(s.values), width)
		}
		return alphabet.FromValues(s.values), nil
	case StagedStep:
		var l alphabet.Letter
		for _, id := range s.ids {
			if id < 0 || id >= width {
				return 0, fmt.Errorf("%w: %d (have %d)", ErrUnknownAtomic, id, width)
			}
			l = l.With(id)
		}
		return l, nil
	}
	return 0, fmt.Errorf("matcher: invalid step kind %d", s.kind)
}
