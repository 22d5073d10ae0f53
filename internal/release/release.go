// Package release defines the records shown by the search client: search
// queries, enriched search results and library discography entries.
package release

import "strings"

const (
	// VariousArtists is how the station library names compilation artists.
	VariousArtists = "Various Artists"
	// VariousToken is the shorter artist token Discogs uses for compilations.
	VariousToken = "Various"
)

// IsVarious reports whether artist is the compilation sentinel in either spelling.
func IsVarious(artist string) bool {
	a := strings.TrimSpace(artist)
	return strings.EqualFold(a, VariousArtists) || strings.EqualFold(a, VariousToken)
}

// SearchQuery is an artist/track pair submitted by the user.
type SearchQuery struct {
	Artist string
	Track  string
}

// Normalize trims whitespace and collapses the compilation sentinel to the
// token the search provider understands.
func (q SearchQuery) Normalize() SearchQuery {
	out := SearchQuery{
		Artist: strings.TrimSpace(q.Artist),
		Track:  strings.TrimSpace(q.Track),
	}
	if IsVarious(out.Artist) {
		out.Artist = VariousToken
	}
	return out
}

// IsEmpty returns true when neither field carries any text.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Artist) == "" && strings.TrimSpace(q.Track) == ""
}

// Enriched is a search result split into structured fields and annotated with
// the library verification decision.
type Enriched struct {
	Title     string
	Artist    string
	Year      string
	Label     string
	Format    string
	InLibrary bool
}

// DiscographyEntry is a release the library owns. InLibrary is always true.
type DiscographyEntry struct {
	Title     string
	Artist    string
	Year      string
	Label     string
	Format    string
	InLibrary bool
}

// Row is the display form shared by both record kinds.
type Row struct {
	Title     string
	Artist    string
	Year      string
	Label     string
	Format    string
	InLibrary bool
}

// Row converts an enriched result for display.
func (e Enriched) Row() Row {
	return Row(e)
}

// Row converts a discography entry for display.
func (d DiscographyEntry) Row() Row {
	return Row(d)
}
