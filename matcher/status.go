package matcher

import (
	"fmt"
)

// Status is the verdict of a runtime after the events fed so far.
type Status uint8

const (
	// Matched means a suffix of the stream is accepted by the pattern.
	Matched Status = iota
	// Partial means nothing is accepted yet, but a match can still occur.
	Partial
	// Failed means no continuation of the stream can ever match.
	Failed
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case Matched, Partial, Failed:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("matcher: invalid status %d", s)
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "matched":
		*s = Matched
	case "partial":
		*s = Partial
	case "failed":
		*s = Failed
	default:
		return fmt.Errorf("matcher: unknown status %q", text)
	}
	return nil
}

// Report describes the state of an extended runtime after the last event.
//
// Shortest and Longest are the lengths, in events, of the shortest and the
// longest accepted suffix ending at the last event. They are only meaningful
// when Status is Matched. Horizon is the age of the oldest candidate still
// alive: a caller that keeps the last Horizon events can reconstruct every
// match that is still possible.
type Report struct {
	Status   Status
	Shortest int
	Longest  int
	Horizon  int
}

func (r Report) String() string {
	if r.Status == Matched {
		return fmt.Sprintf("matched shortest=%d longest=%d horizon=%d", r.Shortest, r.Longest, r.Horizon)
	}
	return fmt.Sprintf("%s horizon=%d", r.Status, r.Horizon)
}
