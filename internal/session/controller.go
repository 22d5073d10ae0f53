// Package session coordinates a Discogs search session: it pages through
// enriched search results on demand and loads the artist's library
// discography in the background, each with its own cursor and cache.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wxyc/wxyc-discogs/internal/discogs"
	"github.com/wxyc/wxyc-discogs/internal/pager"
	"github.com/wxyc/wxyc-discogs/internal/release"
)

// Searcher fetches one page of raw search results.
type Searcher interface {
	Search(ctx context.Context, query release.SearchQuery, page int) (*discogs.SearchPage, error)
}

// Enricher turns raw results into verified display records.
type Enricher interface {
	Enrich(ctx context.Context, raw []discogs.RawResult) ([]release.Enriched, error)
}

// DiscographyFetcher loads every owned release for an artist.
type DiscographyFetcher interface {
	FetchAll(ctx context.Context, artist string) ([]release.DiscographyEntry, error)
}

// DiscographyEvent reports that a background discography load finished for
// the current query. Loads superseded by a newer query produce no event.
type DiscographyEvent struct {
	Generation uint64
	Artist     string
	Count      int
	Err        error
}

// ErrClosed is returned by NewQuery after Close.
var ErrClosed = errors.New("session closed")

// eventBuffer bounds undelivered discography events; extra events are dropped.
const eventBuffer = 8

// Controller owns the search-result and discography cursor/cache pairs.
type Controller struct {
	searcher    Searcher
	enricher    Enricher
	discography DiscographyFetcher
	log         *slog.Logger

	results *pager.Pager[release.Enriched]
	library *pager.Pager[release.DiscographyEntry]

	mu          sync.Mutex
	query       release.SearchQuery
	cancel      context.CancelFunc
	libraryView bool
	closed      bool

	events chan DiscographyEvent
	wg     sync.WaitGroup
}

// New creates a controller. A nil logger discards output.
func New(searcher Searcher, enricher Enricher, discography DiscographyFetcher, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		searcher:    searcher,
		enricher:    enricher,
		discography: discography,
		log:         log,
		results:     pager.New[release.Enriched](nil),
		library:     pager.New[release.DiscographyEntry](nil),
		events:      make(chan DiscographyEvent, eventBuffer),
	}
}

// Events delivers completed discography loads. It is closed by Close.
func (c *Controller) Events() <-chan DiscographyEvent {
	return c.events
}

// Query returns the normalized query currently being browsed.
func (c *Controller) Query() release.SearchQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// NewQuery discards both caches, starts loading the artist's discography in
// the background and returns the first page of search results. The call
// blocks until that page is fully enriched.
func (c *Controller) NewQuery(ctx context.Context, q release.SearchQuery) ([]release.Enriched, error) {
	q = q.Normalize()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.query = q
	c.libraryView = false
	c.results.Reset(c.searchPages(q))
	gen := c.library.Reset(nil)
	c.library.MarkFetching(gen)

	// The old load is canceled only after the reset so it cannot record a
	// failure against the new query.
	prev := c.cancel
	bgCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	go c.loadDiscography(bgCtx, gen, q.Artist)

	c.log.Info("new search", "artist", q.Artist, "track", q.Track)
	return c.results.Jump(ctx, 1)
}

// searchPages returns the fetch-and-enrich pipeline for q.
func (c *Controller) searchPages(q release.SearchQuery) pager.FetchFunc[release.Enriched] {
	return func(ctx context.Context, page int) ([]release.Enriched, int, error) {
		sp, err := c.searcher.Search(ctx, q, page)
		if err != nil {
			c.log.Error("search failed", "artist", q.Artist, "track", q.Track, "page", page, "error", err)
			return nil, 0, fmt.Errorf("search page %d: %w", page, err)
		}
		items, err := c.enricher.Enrich(ctx, sp.Results)
		if err != nil {
			return nil, 0, fmt.Errorf("enrich page %d: %w", page, err)
		}
		return items, sp.TotalPages, nil
	}
}

func (c *Controller) loadDiscography(ctx context.Context, gen uint64, artist string) {
	defer c.wg.Done()

	if artist == "" {
		if c.library.Fill(gen, nil, discogs.PerPage) {
			c.notify(DiscographyEvent{Generation: gen})
		}
		return
	}

	entries, err := c.discography.FetchAll(ctx, artist)
	if err != nil {
		if c.library.Fail(gen, err) {
			c.log.Error("discography failed", "artist", artist, "error", err)
			c.notify(DiscographyEvent{Generation: gen, Artist: artist, Err: err})
		}
		return
	}

	if !c.library.Fill(gen, entries, discogs.PerPage) {
		c.log.Debug("discarding stale discography", "artist", artist)
		return
	}
	c.log.Debug("discography loaded", "artist", artist, "count", len(entries))
	c.notify(DiscographyEvent{Generation: gen, Artist: artist, Count: len(entries)})
}

func (c *Controller) notify(ev DiscographyEvent) {
	select {
	case c.events <- ev:
	default:
	}
}

// Page returns search-result page n without moving the cursor.
func (c *Controller) Page(ctx context.Context, n int) ([]release.Enriched, error) {
	return c.results.Page(ctx, n)
}

// Next advances the search-result cursor.
func (c *Controller) Next(ctx context.Context) ([]release.Enriched, error) {
	return c.results.Next(ctx)
}

// Previous moves the search-result cursor back.
func (c *Controller) Previous(ctx context.Context) ([]release.Enriched, error) {
	return c.results.Previous(ctx)
}

// Jump moves the search-result cursor to page n.
func (c *Controller) Jump(ctx context.Context, n int) ([]release.Enriched, error) {
	return c.results.Jump(ctx, n)
}

// Cursor returns the search-result cursor.
func (c *Controller) Cursor() pager.Cursor {
	return c.results.Cursor()
}

// State returns the search-result pager state.
func (c *Controller) State() pager.State {
	return c.results.State()
}

// LibraryPage returns discography page n, or pager.ErrNotReady while the
// background load is still running.
func (c *Controller) LibraryPage(ctx context.Context, n int) ([]release.DiscographyEntry, error) {
	return c.library.Page(ctx, n)
}

// LibraryNext advances the discography cursor.
func (c *Controller) LibraryNext(ctx context.Context) ([]release.DiscographyEntry, error) {
	return c.library.Next(ctx)
}

// LibraryPrevious moves the discography cursor back.
func (c *Controller) LibraryPrevious(ctx context.Context) ([]release.DiscographyEntry, error) {
	return c.library.Previous(ctx)
}

// LibraryJump moves the discography cursor to page n.
func (c *Controller) LibraryJump(ctx context.Context, n int) ([]release.DiscographyEntry, error) {
	return c.library.Jump(ctx, n)
}

// LibraryGeneration identifies the discography load of the current query.
func (c *Controller) LibraryGeneration() uint64 {
	return c.library.Generation()
}

// LibraryCursor returns the discography cursor.
func (c *Controller) LibraryCursor() pager.Cursor {
	return c.library.Cursor()
}

// LibraryState returns the discography pager state.
func (c *Controller) LibraryState() pager.State {
	return c.library.State()
}

// LibraryView reports whether the discography is the active view.
func (c *Controller) LibraryView() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.libraryView
}

// ToggleLibraryView switches between search results and discography and
// returns the new setting.
func (c *Controller) ToggleLibraryView() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.libraryView = !c.libraryView
	return c.libraryView
}

// Clear cancels any background load and resets both cursors and caches
// without issuing requests.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.query = release.SearchQuery{}
	c.libraryView = false
	c.results.Reset(nil)
	c.library.Reset(nil)
	prev := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Close clears the controller, waits for background loads to return and
// closes Events. Later queries fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.Clear()
	c.wg.Wait()
	close(c.events)
}
