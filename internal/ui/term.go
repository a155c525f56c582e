package ui

import (
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsTTY reports whether the given file descriptor refers to a terminal,
// including Cygwin/MSYS pseudo terminals.
func IsTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TermWidth returns the terminal width in columns, or 80 if it cannot be determined.
func TermWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd)) //nolint:gosec // G115: fd fits in int
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
