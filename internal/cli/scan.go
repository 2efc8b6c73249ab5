package cli

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/sere"
	"github.com/coregx/sere/alphabet"
	"github.com/coregx/sere/compiler"
	"github.com/coregx/sere/internal/keyword"
	"github.com/coregx/sere/internal/store"
	"github.com/coregx/sere/matcher"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Config string // scan configuration file
	Store  string // SQLite match journal, optional
}

// ScanMatch is a run of lines that matched the pattern, ending at Line.
type ScanMatch struct {
	Line     int    `json:"line"`
	From     int    `json:"from"`
	Shortest int    `json:"shortest,omitempty"`
	Text     string `json:"text"`
}

// ScanResult summarizes a scan.
type ScanResult struct {
	Source  string      `json:"source"`
	Pattern string      `json:"pattern"`
	Target  string      `json:"target"`
	Lines   int         `json:"lines"`
	Matches []ScanMatch `json:"matches"`
	RunID   string      `json:"run_id,omitempty"`
}

// letterRuntime is a runtime that accepts classified letters directly.
type letterRuntime interface {
	matcher.Runtime
	AdvanceLetter(l alphabet.Letter)
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan --config <scan.yaml> [log]",
		Short: "Scan a log file for pattern matches",
		Long: `Scan a log file line by line. Every line is one event: a predicate holds
when the line contains one of the keywords bound to it in the
configuration. Reports the line ranges that match the pattern.

With --store every match is journaled in a SQLite database under a new
run id.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := ""
			if len(args) == 1 {
				log = args[0]
			}
			return runScan(opts, log, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "scan configuration file (YAML)")
	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite database journaling matches")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runScan(opts *ScanOptions, logPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cfg, err := LoadScanConfig(opts.Config)
	if err != nil {
		return formatter.fail(ErrCodeConfig, err.Error(), nil)
	}
	target, err := compiler.ParseTarget(cfg.Target)
	if err != nil {
		return formatter.fail(ErrCodeConfig, err.Error(), nil)
	}
	config := opts.config(formatter.GetErrWriter())
	cfg.Limits.apply(&config)

	art, err := sere.CompileWithConfig(cfg.Pattern, target, config)
	if err != nil {
		return formatter.failCompile(err)
	}
	classifier, err := keyword.New(art.Result().Atomics, cfg.Predicates, cfg.IgnoreCase)
	if err != nil {
		return formatter.fail(ErrCodeConfig, err.Error(), nil)
	}
	loaded, err := sere.LoadAny(art.Content(), config)
	if err != nil {
		return formatter.failLoad(opts.Config, err)
	}
	rt := loaded.(letterRuntime)

	in, name, err := openInput(cmd, formatter, logPath)
	if err != nil {
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("opening log: %v", err), nil)
	}
	defer in.Close()

	var journal *store.Store
	runID := ""
	if opts.Store != "" {
		journal, err = store.Open(opts.Store)
		if err != nil {
			return formatter.fail(ErrCodeStore, err.Error(), nil)
		}
		defer journal.Close()
		runID, err = journal.StartRun(ctx, store.Run{
			Pattern: cfg.Pattern,
			Target:  target.String(),
			Source:  name,
		})
		if err != nil {
			return formatter.fail(ErrCodeStore, err.Error(), nil)
		}
		formatter.VerboseLog("Journaling run %s in %s", runID, opts.Store)
	}

	formatter.VerboseLog("Scanning %s with %d keyword(s) for %s", name, classifier.Keywords(), art)

	result := ScanResult{Source: name, Pattern: cfg.Pattern, Target: target.String(), Matches: []ScanMatch{}, RunID: runID}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return formatter.fail(ErrCodeGeneric, err.Error(), nil)
		}
		result.Lines++
		rt.AdvanceLetter(classifier.Classify(sc.Bytes()))
		rep := reportOf(rt)
		if rep.Status != matcher.Matched {
			continue
		}
		m := ScanMatch{Line: result.Lines, From: result.Lines, Shortest: rep.Shortest, Text: sc.Text()}
		if rep.Longest > 0 {
			m.From = result.Lines - rep.Longest + 1
		}
		result.Matches = append(result.Matches, m)
		if journal != nil {
			err := journal.RecordMatch(ctx, runID, store.Match{
				Seq:      m.Line,
				Shortest: rep.Shortest,
				Longest:  rep.Longest,
				Horizon:  rep.Horizon,
			})
			if err != nil {
				return formatter.fail(ErrCodeStore, err.Error(), nil)
			}
		}
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "%s:%d: lines %d-%d: %s\n", name, m.Line, m.From, m.Line, m.Text)
		}
	}
	if err := sc.Err(); err != nil {
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("reading log: %v", err), nil)
	}

	if journal != nil {
		if err := journal.FinishRun(ctx, runID, result.Lines, time.Now()); err != nil {
			return formatter.fail(ErrCodeStore, err.Error(), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Scanned %d line(s) from %s: %d match(es)\n", result.Lines, name, len(result.Matches))
	if runID != "" {
		fmt.Fprintf(formatter.Writer, "  run %s\n", runID)
	}
	return nil
}
