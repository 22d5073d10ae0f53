// Package testutil drives bubbletea models in tests and inspects what they
// render.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences so rendered output can be compared as
// plain text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// SplitLines returns the plain-text lines of rendered output.
func SplitLines(output string) []string {
	if output == "" {
		return nil
	}
	return strings.Split(StripANSI(output), "\n")
}

// FindLine returns the first plain-text line containing substr, or "".
func FindLine(output, substr string) string {
	for _, line := range SplitLines(output) {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
