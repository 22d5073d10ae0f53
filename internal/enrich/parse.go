package enrich

import (
	"regexp"
	"strings"

	"github.com/wxyc/wxyc-discogs/internal/release"
)

// disambiguationRe matches Discogs artist disambiguation tags such as "(2)".
var disambiguationRe = regexp.MustCompile(`\s*\(\d+\)`)

// ParseTitle splits a compound "<artist> - <title>" on the first separator.
func ParseTitle(compound string) (artist, title string, err error) {
	left, right, found := strings.Cut(compound, release.TitleSeparator)
	if !found {
		return "", "", &release.MalformedTitleError{Title: compound}
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), nil
}

// CleanArtist strips numeric disambiguation tags and the trailing "*" Discogs
// appends to artist name variations.
func CleanArtist(artist string) string {
	cleaned := disambiguationRe.ReplaceAllString(artist, "")
	cleaned = strings.TrimSpace(cleaned)
	return strings.TrimSpace(strings.TrimRight(cleaned, "*"))
}
