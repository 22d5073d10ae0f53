// Package popup renders small bordered boxes centered on the screen, meant to
// be laid over the current view with overlay.Compose.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wxyc/wxyc-discogs/internal/ui/render"
	"github.com/wxyc/wxyc-discogs/internal/ui/styles"
)

// Style configures the box appearance.
type Style struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	Text        lipgloss.Style
}

// DefaultStyle returns the themed box style.
func DefaultStyle() Style {
	t := styles.T()
	return Style{
		Border:      lipgloss.RoundedBorder(),
		BorderColor: t.Primary,
		Text:        t.S().Title,
	}
}

// Dialog is a bordered box of text lines.
type Dialog struct {
	Content string
	Width   int // inner width; 0 fits the widest line
	Style   Style
}

// New creates a dialog with the default style.
func New() *Dialog {
	return &Dialog{Style: DefaultStyle()}
}

// Render returns the box centered in a termWidth x termHeight area.
func (d *Dialog) Render(termWidth, termHeight int) string {
	width := d.Width
	if width == 0 {
		width = maxLineWidth(d.Content) + 2
	}
	width = max(min(width, termWidth-4), 1)

	lines := strings.Split(d.Content, "\n")
	for i, line := range lines {
		lines[i] = render.TruncateAndPad(line, width)
	}

	box := lipgloss.NewStyle().
		Border(d.Style.Border).
		BorderForeground(d.Style.BorderColor).
		Padding(0, 1).
		Render(d.Style.Text.Render(strings.Join(lines, "\n")))

	return Center(box, termWidth, termHeight)
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Center places pre-rendered content in the middle of the screen. Lines above
// the content are blank so overlay.Compose leaves them untouched.
func Center(content string, termWidth, termHeight int) string {
	lines := strings.Split(content, "\n")
	width := maxLineWidth(content)

	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := max((termWidth-width)/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
	}
	return b.String()
}
