package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/ui/overlay"
	"github.com/wxyc/wxyc-discogs/internal/ui/popup"
	"github.com/wxyc/wxyc-discogs/internal/ui/render"
	"github.com/wxyc/wxyc-discogs/internal/ui/styles"
)

const (
	defaultWidth  = 100
	defaultHeight = 24

	appTitle     = "WXYC Discogs Search"
	notAvailable = "N/A"
	markOwned    = "✓"
	markMissing  = "X"

	// title, blank, header, separator / status, page, controls
	tableOverhead = 7
)

// column is a results-table column sized as a fraction of the screen width.
type column struct {
	title string
	share float64
}

var columns = []column{
	{"Title", 0.25},
	{"Artist", 0.25},
	{"Year", 0.10},
	{"Label", 0.15},
	{"Format", 0.15},
	{"WXYC", 0.10},
}

func dimStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func promptStyle() lipgloss.Style {
	return styles.T().S().Title
}

func headerStyle() lipgloss.Style {
	return styles.T().S().Title
}

func errorStyle() lipgloss.Style {
	return styles.T().S().Error
}

// View implements tea.Model.
func (m Model) View() string {
	var body, footer string
	switch m.screen {
	case ScreenLogin:
		body = m.renderForm("Log in to the WXYC library", m.login)
	case ScreenSearch:
		body = m.renderForm("Search Discogs", m.search)
	case ScreenResults:
		body = m.renderResults()
		footer = m.renderFooter()
	}

	base := layout(body, footer, m.width, m.height)
	if m.busy {
		return overlay.Compose(base, m.renderLoading(), m.width, m.height)
	}
	return base
}

func (m Model) renderTitle(right string) string {
	t := styles.T()
	title := styles.ApplyBoldGradient(appTitle, t.Primary, t.Secondary)
	if right == "" {
		return title
	}
	return render.Row(title, dimStyle().Render(right), m.width)
}

func (m Model) renderForm(heading string, f form) string {
	var b strings.Builder
	b.WriteString(m.renderTitle(heading))
	b.WriteString("\n\n")
	b.WriteString(f.view())
	b.WriteString("\n\n")
	if m.errorMsg != "" {
		b.WriteString(errorStyle().Render(m.errorMsg))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle().Render(m.formKeys.Controls()))
	return b.String()
}

// loadingText renders "Loading" followed by a cycling run of dots.
func loadingText(label string, frame int) string {
	if label == "" {
		label = "Loading"
	}
	return label + strings.Repeat(".", frame%4)
}

func (m Model) renderLoading() string {
	d := popup.New()
	// Fixed width so the box does not resize as the dots cycle.
	d.Width = len(loadingText(m.busyLabel, 3)) + 2
	d.Content = loadingText(m.busyLabel, m.loadingFrame)
	return d.Render(m.width, m.height)
}

func (m Model) renderResults() string {
	var b strings.Builder

	b.WriteString(m.renderTitle(m.querySummary()))
	b.WriteString("\n\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(dimStyle().Render(render.Separator(m.width)))
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	return b.String()
}

func (m Model) querySummary() string {
	q := m.view.Query
	parts := make([]string, 0, 3)
	if q.Artist != "" {
		parts = append(parts, q.Artist)
	}
	if q.Track != "" {
		parts = append(parts, q.Track)
	}
	if m.view.LibraryView {
		parts = append(parts, "[library]")
	}
	return strings.Join(parts, " · ")
}

func (m Model) columnWidths() []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(int(float64(m.width)*c.share), 2)
	}
	return widths
}

func (m Model) renderHeader() string {
	widths := m.columnWidths()
	var b strings.Builder
	for i, c := range columns {
		b.WriteString(render.TruncateAndPad(c.title, widths[i]-1))
		b.WriteString(" ")
	}
	return headerStyle().Render(b.String())
}

func (m Model) renderRows() string {
	if m.libraryLoading() {
		return dimStyle().Render(loadingText("Loading library discography", m.loadingFrame))
	}
	if len(m.view.Rows) == 0 {
		switch {
		case m.view.LibraryView && m.view.Err != nil:
			return ""
		case m.view.LibraryView:
			return dimStyle().Render("No releases by this artist in the library")
		case m.view.Ready:
			return dimStyle().Render("No results")
		}
		return ""
	}

	maxRows := max(m.height-tableOverhead, 1)
	lines := make([]string, 0, min(len(m.view.Rows), maxRows))
	for i, row := range m.view.Rows {
		if i >= maxRows {
			break
		}
		lines = append(lines, m.renderRow(row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r release.Row) string {
	widths := m.columnWidths()
	values := []string{r.Title, r.Artist, r.Year, r.Label, r.Format}

	var b strings.Builder
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			v = notAvailable
		}
		b.WriteString(render.TruncateAndPad(v, widths[i]-1))
		b.WriteString(" ")
	}

	t := styles.T().S()
	if r.InLibrary {
		b.WriteString(t.Success.Render(markOwned))
	} else {
		b.WriteString(t.Error.Render(markMissing))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.errorMsg != "":
		status = errorStyle().Render(render.Truncate(m.errorMsg, m.width))
	case m.status != "":
		status = dimStyle().Render(m.status)
	case m.libraryArtist != "":
		status = dimStyle().Render(libraryStatus(m.libraryArtist, m.libraryCount))
	}

	page := "Page " + humanize.Comma(int64(m.view.Cursor.Current)) + " of " + humanize.Comma(int64(max(m.view.Cursor.Total, 1)))
	if m.view.Cursor.Current == 0 {
		page = "Page 1 of 1"
	}

	return status + "\n" + page + "\n" + dimStyle().Render(m.resultsKeys.Controls())
}

func libraryStatus(artist string, count int) string {
	noun := "releases"
	if count == 1 {
		noun = "release"
	}
	return "Library: " + humanize.Comma(int64(count)) + " " + noun + " by " + artist
}

// layout pads body to fill the screen and anchors footer to the bottom so
// overlays line up with the screen.
func layout(body, footer string, width, height int) string {
	lines := strings.Split(body, "\n")
	var tail []string
	if footer != "" {
		tail = strings.Split(footer, "\n")
	}

	room := max(height-len(tail), 0)
	if len(lines) > room {
		lines = lines[:room]
	}
	for len(lines) < room {
		lines = append(lines, render.EmptyLine(width))
	}
	return strings.Join(append(lines, tail...), "\n")
}
