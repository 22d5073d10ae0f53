// Package overlay lays one rendered view over another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Compose draws top over base, line by line. On each line of top, the span
// from the first to the last visible character replaces the same columns of
// base; blank lines and the spaces around the span leave base showing.
// Styling in both views is preserved.
func Compose(base, top string, width, _ int) string {
	baseLines := strings.Split(base, "\n")

	for i, line := range strings.Split(top, "\n") {
		if i >= len(baseLines) {
			break
		}
		start, end, ok := span(line)
		if !ok {
			continue
		}
		baseLines[i] = splice(baseLines[i], ansi.Cut(line, start, end), start, end, width)
	}

	return strings.Join(baseLines, "\n")
}

// span returns the visible column range of line without leading and
// trailing spaces.
func span(line string) (start, end int, ok bool) {
	plain := ansi.Strip(line)
	trimmed := strings.TrimLeft(plain, " ")
	if strings.TrimSpace(trimmed) == "" {
		return 0, 0, false
	}
	start = len(plain) - len(trimmed)
	end = start + ansi.StringWidth(strings.TrimRight(trimmed, " "))
	return start, end, true
}

// splice replaces columns [start, end) of line with mid, padding line to
// width first so the suffix lines up.
func splice(line, mid string, start, end, width int) string {
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}

	prefix := ansi.Cut(line, 0, start)
	// A wide character straddling start is dropped by Cut; keep columns aligned.
	if w := ansi.StringWidth(prefix); w < start {
		prefix += strings.Repeat(" ", start-w)
	}

	out := prefix + mid
	if end < width {
		out += ansi.Cut(line, end, width)
	}
	return out
}
