// Package render holds the width-aware text helpers used to lay out table
// cells and status lines.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters (tab excepted) and invalid UTF-8, and
// turns non-breaking spaces into plain ones. Release metadata from upstream
// services is not trusted to be printable.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(s[i : i+size])
		}
		i += max(size, 1)
	}
	return b.String()
}

// needsSanitize is a byte scan that rules out the common clean case. It may
// report true for clean text; Sanitize is then a copy.
func needsSanitize(s string) bool {
	for i := range len(s) {
		b := s[i]
		switch {
		case b < 0x20 && b != '\t':
			return true
		case b >= 0x80 && b <= 0x9f:
			return true
		case b == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0:
			return true
		}
	}
	return false
}

// Truncate sanitizes s and shortens it to maxWidth display columns, ending in
// "..." when cut.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// Pad right-fills s with spaces to width display columns.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad returns s in exactly width display columns.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row puts left and right at the two ends of a width-column line, keeping at
// least one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator is a horizontal rule.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// EmptyLine is width spaces.
func EmptyLine(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
