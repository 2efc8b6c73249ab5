package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/sere"
	"github.com/coregx/sere/matcher"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Events      string // "auto" | "jsonl" | "yaml"
	Strict      bool   // reject events naming unknown predicates
	MatchesOnly bool   // print matched reports only
}

// EventReport is the runtime report after one event.
type EventReport struct {
	Seq      int            `json:"seq"`
	Status   matcher.Status `json:"status"`
	Shortest int            `json:"shortest,omitempty"`
	Longest  int            `json:"longest,omitempty"`
	Horizon  int            `json:"horizon,omitempty"`
	extended bool
}

func (r EventReport) String() string {
	if !r.extended {
		return fmt.Sprintf("%d\t%s", r.Seq, r.Status)
	}
	rep := matcher.Report{Status: r.Status, Shortest: r.Shortest, Longest: r.Longest, Horizon: r.Horizon}
	return fmt.Sprintf("%d\t%s", r.Seq, rep)
}

// errUnknownName marks an event naming a predicate the pattern lacks.
var errUnknownName = errors.New("unknown predicate")

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <artifact> [events]",
		Short: "Run an artifact over a stream of events",
		Long: `Load an artifact of either target and feed it events, printing the
report after every event.

Events are JSON lines such as {"login": true} or a YAML list of the same
maps. Predicates missing from an event are false. Events are read from
standard input when no file is given.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			events := ""
			if len(args) == 2 {
				events = args[1]
			}
			return runMatch(opts, args[0], events, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Events, "events", EventsAuto, "events format (auto|jsonl|yaml)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on events naming unknown predicates")
	cmd.Flags().BoolVar(&opts.MatchesOnly, "matches-only", false, "print matched reports only")

	return cmd
}

func runMatch(opts *MatchOptions, artifactPath, eventsPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format, err := eventFormat(opts.Events, eventsPath)
	if err != nil {
		return formatter.fail(ErrCodeUsage, err.Error(), nil)
	}
	content, err := os.ReadFile(artifactPath)
	if err != nil {
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("reading artifact: %v", err), nil)
	}
	rt, err := sere.LoadAny(content, opts.config(formatter.GetErrWriter()))
	if err != nil {
		return formatter.failLoad(artifactPath, err)
	}

	in, name, err := openInput(cmd, formatter, eventsPath)
	if err != nil {
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("opening events: %v", err), nil)
	}
	defer in.Close()

	formatter.VerboseLog("Matching %s events from %s against %s", format, name, artifactPath)

	warned := make(map[string]bool)
	values := make([]bool, rt.AtomicCount())
	matches, events := 0, 0
	err = readEvents(in, format, func(seq int, ev Event) error {
		clear(values)
		for key, v := range ev {
			i, ok := rt.Index(key)
			if !ok {
				if opts.Strict {
					return &EventError{Seq: seq, Err: fmt.Errorf("%w %q", errUnknownName, key)}
				}
				if !warned[key] {
					warned[key] = true
					formatter.VerboseLog("Ignoring unknown predicate %q", key)
				}
				continue
			}
			values[i] = v
		}
		if err := rt.Feed(matcher.Valuation(values...)); err != nil {
			return &EventError{Seq: seq, Err: err}
		}
		events = seq
		rep := reportOf(rt)
		if rep.Status == matcher.Matched {
			matches++
		} else if opts.MatchesOnly {
			return nil
		}
		return formatter.Record(EventReport{
			Seq:      seq,
			Status:   rep.Status,
			Shortest: rep.Shortest,
			Longest:  rep.Longest,
			Horizon:  rep.Horizon,
			extended: isExtended(rt),
		})
	})
	if err != nil {
		var evErr *EventError
		if errors.As(err, &evErr) {
			return formatter.fail(ErrCodeEvent, evErr.Error(), nil)
		}
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("reading events: %v", err), nil)
	}

	formatter.VerboseLog("%d event(s), %d matched", events, matches)
	return nil
}

// reportOf returns the report of either runtime. The simple runtime only
// knows its status.
func reportOf(rt matcher.Runtime) matcher.Report {
	if ext, ok := rt.(*matcher.Extended); ok {
		return ext.Matched()
	}
	return matcher.Report{Status: rt.Result()}
}

func isExtended(rt matcher.Runtime) bool {
	_, ok := rt.(*matcher.Extended)
	return ok
}
