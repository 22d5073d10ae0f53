package catalog

import (
	"context"
	"fmt"

	"github.com/wxyc/wxyc-discogs/internal/release"
)

// discographyLimit caps the single discography request.
const discographyLimit = 100

// Discography fetches every release the library owns for an artist.
type Discography struct {
	client Lookuper
}

// NewDiscography creates a discography fetcher.
func NewDiscography(client Lookuper) *Discography {
	return &Discography{client: client}
}

// FetchAll returns the artist's owned releases in catalog order. Every entry
// is marked as in the library.
func (d *Discography) FetchAll(ctx context.Context, artist string) ([]release.DiscographyEntry, error) {
	candidates, err := d.client.Lookup(ctx, LookupParams{Artist: artist, Limit: discographyLimit})
	if err != nil {
		return nil, fmt.Errorf("fetch discography for %q: %w", artist, err)
	}

	entries := make([]release.DiscographyEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, release.DiscographyEntry{
			Title:     c.AlbumTitle,
			Artist:    c.ArtistName,
			Year:      c.Year,
			Label:     c.Label,
			Format:    c.Format,
			InLibrary: true,
		})
	}
	return entries, nil
}
