//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package cli

// isTerminalFd always reports false where termios is unavailable.
func isTerminalFd(int) bool {
	return false
}
