package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

// openInput opens path, or the command's input when path is "" or "-".
// The returned name labels the source in output.
func openInput(cmd *cobra.Command, f *OutputFormatter, path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		in := cmd.InOrStdin()
		if isTerminal(in) {
			fmt.Fprintln(f.GetErrWriter(), "reading from terminal, end input with Ctrl-D")
		}
		return io.NopCloser(in), stdinName, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	return file, path, nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isTerminalFd(int(file.Fd()))
}
