// Package cliutil holds the write helpers shared by the CLI commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Writef writes formatted output to w. A failed write is reported on stderr
// instead of aborting the command.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Heading writes title underlined with '=' and followed by a blank line.
func Heading(w io.Writer, title string) {
	Writef(w, "%s\n%s\n\n", title, strings.Repeat("=", utf8.RuneCountInString(title)))
}

// Plural formats a count with its noun, adding an "s" unless n is 1.
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
