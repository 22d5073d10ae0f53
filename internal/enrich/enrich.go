// Package enrich turns raw Discogs search results into display records
// annotated with the library verification decision.
package enrich

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/wxyc/wxyc-discogs/internal/discogs"
	"github.com/wxyc/wxyc-discogs/internal/release"
)

// MaxConcurrentLookups bounds the verification fan-out for one page.
const MaxConcurrentLookups = 10

// Verifier decides library membership. Implementations must not fail: a
// lookup error is reported as false.
type Verifier interface {
	Verify(ctx context.Context, artist, title string) bool
}

// Enricher parses and verifies one page of search results.
type Enricher struct {
	verifier Verifier
	limit    int
	log      *slog.Logger
}

// New creates an enricher. A nil logger discards output.
func New(verifier Verifier, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Enricher{
		verifier: verifier,
		limit:    MaxConcurrentLookups,
		log:      log,
	}
}

// Enrich returns one record per parseable raw result, in input order.
// Results with malformed titles are skipped. All verification lookups finish
// before Enrich returns; the only error is cancellation of ctx, in which case
// the page is incomplete and must not be used.
func (e *Enricher) Enrich(ctx context.Context, raw []discogs.RawResult) ([]release.Enriched, error) {
	parsed := make([]release.Enriched, 0, len(raw))
	for _, r := range raw {
		artist, title, err := ParseTitle(r.Title)
		if err != nil {
			e.log.Warn("skipping result", "id", r.ID, "error", err)
			continue
		}
		parsed = append(parsed, release.Enriched{
			Title:  title,
			Artist: CleanArtist(artist),
			Year:   r.Year,
			Label:  r.FirstLabel(),
			Format: r.FirstFormat(),
		})
	}

	var g errgroup.Group
	g.SetLimit(e.limit)
	for i := range parsed {
		g.Go(func() error {
			parsed[i].InLibrary = e.verifier.Verify(ctx, parsed[i].Artist, parsed[i].Title)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parsed, nil
}
