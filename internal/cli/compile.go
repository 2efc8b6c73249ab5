package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coregx/sere"
	"github.com/coregx/sere/codec"
	"github.com/coregx/sere/compiler"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Target string // "simple" | "extended"
	Binary bool   // write the binary encoding
	Output string // output file path
}

// CompileSummary describes a compiled artifact.
type CompileSummary struct {
	Pattern  string   `json:"pattern"`
	Target   string   `json:"target"`
	Encoding string   `json:"encoding"`
	Atomics  []string `json:"atomics"`
	States   int      `json:"states"`
	Bytes    int      `json:"bytes"`
	Output   string   `json:"output,omitempty"`
	Artifact any      `json:"artifact,omitempty"` // inline artifact when no output file is given
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Compile a pattern to an artifact",
		Long: `Compile a SERE pattern for the simple or extended target.

Without --output the artifact is written to standard output. With
--format json the artifact is embedded in the response instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "extended", "compilation target (simple|extended)")
	cmd.Flags().BoolVar(&opts.Binary, "binary", false, "write the compact binary encoding")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, pattern string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	target, err := compiler.ParseTarget(opts.Target)
	if err != nil {
		return formatter.fail(ErrCodeUsage, err.Error(), nil)
	}
	config := opts.config(formatter.GetErrWriter())
	if opts.Binary {
		config.Encoding = codec.Binary
	}

	art, err := sere.CompileWithConfig(pattern, target, config)
	if err != nil {
		return formatter.failCompile(err)
	}
	formatter.VerboseLog("Compiled %s", art)

	summary := CompileSummary{
		Pattern:  pattern,
		Target:   target.String(),
		Encoding: config.Encoding.String(),
		Atomics:  art.Atomics(),
		States:   art.States(),
		Bytes:    len(art.Content()),
		Output:   opts.Output,
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, art.Content(), 0o644); err != nil {
			return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		return outputCompileSuccess(formatter, summary)
	}

	if formatter.Format == "json" {
		if opts.Binary {
			summary.Artifact = art.Content()
		} else {
			summary.Artifact = json.RawMessage(art.Content())
		}
		return formatter.Success(summary)
	}

	if opts.Binary && isTerminal(formatter.Writer) {
		return formatter.fail(ErrCodeUsage, "refusing to write a binary artifact to a terminal, use --output", nil)
	}
	if _, err := formatter.Writer.Write(art.Content()); err != nil {
		return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("writing artifact: %v", err), nil)
	}
	if !opts.Binary {
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

// outputCompileSuccess reports an artifact written to a file.
func outputCompileSuccess(formatter *OutputFormatter, summary CompileSummary) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Compiled %s artifact: %d state(s), %d predicate(s)\n",
		summary.Target, summary.States, len(summary.Atomics))
	if len(summary.Atomics) > 0 {
		fmt.Fprintf(formatter.Writer, "  predicates: %s\n", strings.Join(summary.Atomics, ", "))
	}
	fmt.Fprintf(formatter.Writer, "  wrote %d bytes (%s) to %s\n", summary.Bytes, summary.Encoding, summary.Output)
	return nil
}
