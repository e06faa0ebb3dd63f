package termcolor

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether the given file descriptor refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd)) //nolint:gosec // G115: fd comes from os.File.Fd(); safe on all supported platforms
}

// ShouldColorize reports whether color output should be enabled for f.
// It returns true when f is a terminal and the NO_COLOR environment variable
// is not set. See https://no-color.org/.
func ShouldColorize(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(f.Fd())
}

// Width returns f's terminal column width, or fallback if f is not a
// terminal or the size cannot be determined.
func Width(f *os.File, fallback int) int {
	if !IsTerminal(f.Fd()) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // G115: fd comes from os.File.Fd(); safe on all supported platforms
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
