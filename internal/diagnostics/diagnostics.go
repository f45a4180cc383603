// Package diagnostics renders a parse error against its source text,
// the way a compiler points at the offending line instead of just
// printing a message: keep the byte/line position alongside the error,
// and print a window of context around it with a caret underneath.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchand/wayfinder-go/internal/routeparse"
)

// context is how many source lines are printed before and after the
// offending one.
const context = 2

// Show writes a human-readable rendering of err against source to w. If
// err is not a *routeparse.Error (or does not wrap one), it is written
// as a plain message with no source context.
func Show(w io.Writer, source string, err error) error {
	var parseErr *routeparse.Error
	if !errors.As(err, &parseErr) {
		_, writeErr := fmt.Fprintf(w, "error: %v\n", err)
		return writeErr
	}

	lines := strings.Split(source, "\n")
	lineNo := parseErr.Line

	lo := lineNo - context
	if lo < 1 {
		lo = 1
	}
	hi := lineNo + context
	if hi > len(lines) {
		hi = len(lines)
	}

	gutterWidth := len(fmt.Sprintf("%d", hi))

	var buf strings.Builder
	fmt.Fprintf(&buf, "error: %s\n", parseErr.Message)
	for n := lo; n <= hi; n++ {
		marker := " "
		if n == lineNo {
			marker = ">"
		}
		text := ""
		if n-1 < len(lines) {
			text = lines[n-1]
		}
		fmt.Fprintf(&buf, "%s %*d | %s\n", marker, gutterWidth, n, text)
		if n == lineNo {
			fmt.Fprintf(&buf, "  %s | %s^\n", strings.Repeat(" ", gutterWidth), strings.Repeat(" ", leadingWidth(text)))
		}
	}

	_, writeErr := io.WriteString(w, buf.String())
	return writeErr
}

// leadingWidth is how many columns of padding the caret needs to land
// under the first non-space character of line, for a little more
// precision than pointing at column zero.
func leadingWidth(line string) int {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
