package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders bold text whose color moves from one theme color
// to the other, one grapheme cluster at a time.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	var b strings.Builder
	for i, hex := range blendHex(len(clusters), from, to) {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(hex)).
			Bold(true).
			Render(clusters[i]))
	}
	return b.String()
}

// blendHex returns size colors blended in HCL space, which keeps the
// perceived brightness even across the run.
func blendHex(size int, from, to lipgloss.Color) []string {
	if size == 0 {
		return nil
	}
	c1 := toColorful(from)
	if size == 1 {
		return []string{c1.Hex()}
	}
	c2 := toColorful(to)

	out := make([]string, size)
	for i := range size {
		out[i] = c1.BlendHcl(c2, float64(i)/float64(size-1)).Clamped().Hex()
	}
	return out
}

// toColorful parses a "#rrggbb" color. ANSI palette indexes fall back to gray.
func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return col
}
