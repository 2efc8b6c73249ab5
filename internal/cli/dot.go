package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coregx/sere"
	"github.com/coregx/sere/dot"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	*RootOptions
	Output string // output file path
}

// DotSummary describes a graph written to a file.
type DotSummary struct {
	Artifact string `json:"artifact"`
	Target   string `json:"target"`
	States   int    `json:"states"`
	Output   string `json:"output"`
}

func (s DotSummary) String() string {
	return fmt.Sprintf("✓ Wrote %s automaton (%d state(s)) to %s", s.Target, s.States, s.Output)
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dot <artifact>",
		Short: "Render an artifact as a Graphviz digraph",
		Long: `Render the automaton stored in an artifact in Graphviz DOT syntax.
Edges are labelled with their guards over the predicate names.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runDot(opts *DotOptions, artifactPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	content, err := os.ReadFile(artifactPath)
	if err != nil {
		return formatter.fail(ErrCodeReadFailed, fmt.Sprintf("reading artifact: %v", err), nil)
	}
	res, err := sere.Decode(content)
	if err != nil {
		return formatter.failLoad(artifactPath, err)
	}

	if opts.Output == "" {
		if err := dot.Write(formatter.Writer, res); err != nil {
			return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("writing graph: %v", err), nil)
		}
		return nil
	}
	if err := dot.WriteFile(opts.Output, res); err != nil {
		return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
	}
	return formatter.Success(DotSummary{
		Artifact: artifactPath,
		Target:   res.Target.String(),
		States:   res.States(),
		Output:   opts.Output,
	})
}
