// Command sere compiles SERE patterns and runs them over event streams.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/coregx/sere/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		// Commands report their own errors; only cobra's usage errors are left.
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
