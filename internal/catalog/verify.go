package catalog

import (
	"context"
	"log/slog"

	"github.com/wxyc/wxyc-discogs/internal/release"
)

const (
	// AlbumMatchThreshold is the near-match ceiling for album distance.
	AlbumMatchThreshold = 0.2
	// ArtistMatchThreshold is the looser ceiling for artist distance.
	ArtistMatchThreshold = 0.7

	verifyLimit = 1
)

// Lookuper queries the catalog. Implemented by *Client.
type Lookuper interface {
	Lookup(ctx context.Context, p LookupParams) ([]Release, error)
}

// Verifier decides whether a search result is already in the library.
type Verifier struct {
	client Lookuper
	log    *slog.Logger
}

// NewVerifier creates a verifier. A nil logger discards output.
func NewVerifier(client Lookuper, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Verifier{client: client, log: log}
}

// Verify reports whether the library holds artist/title. Lookup failures are
// logged and reported as false; they never reach the caller.
func (v *Verifier) Verify(ctx context.Context, artist, title string) bool {
	params := LookupParams{Title: title, Limit: verifyLimit}
	// Compilations are filed under many artist spellings; match on title only.
	if !release.IsVarious(artist) {
		params.Artist = artist
	}

	candidates, err := v.client.Lookup(ctx, params)
	if err != nil {
		v.log.Warn("library lookup failed",
			"artist", artist,
			"title", title,
			"error", err,
		)
		return false
	}

	for _, c := range candidates {
		if IsMatch(c, artist) {
			return true
		}
	}
	return false
}

// IsMatch applies the library match rule to one candidate.
func IsMatch(c Release, artist string) bool {
	if c.AlbumDist >= AlbumMatchThreshold {
		return false
	}
	return release.IsVarious(artist) || c.ArtistDist < ArtistMatchThreshold
}
