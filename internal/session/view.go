package session

import (
	"errors"

	"github.com/wxyc/wxyc-discogs/internal/pager"
	"github.com/wxyc/wxyc-discogs/internal/release"
)

// View is what the presentation layer draws for the active result set.
type View struct {
	Query       release.SearchQuery
	Rows        []release.Row
	Cursor      pager.Cursor
	LibraryView bool
	// Ready is false while the discography is still loading. An empty but
	// ready view means the library owns nothing by this artist.
	Ready bool
	Err   error
}

// Snapshot returns the cached page under the active cursor. It never issues
// requests.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	v := View{Query: c.query, LibraryView: c.libraryView}
	c.mu.Unlock()

	if !v.LibraryView {
		v.Cursor = c.results.Cursor()
		items, ok := c.results.Cached(v.Cursor.Current)
		v.Ready = ok
		v.Rows = rows(items)
		return v
	}

	v.Cursor = c.library.Cursor()
	items, ok := c.library.Cached(v.Cursor.Current)
	v.Ready = ok
	v.Rows = rows(items)
	if !ok {
		if err := c.library.Err(); err != nil && !errors.Is(err, pager.ErrNotReady) {
			v.Err = err
		}
	}
	return v
}

type rower interface {
	Row() release.Row
}

func rows[T rower](items []T) []release.Row {
	out := make([]release.Row, len(items))
	for i, it := range items {
		out[i] = it.Row()
	}
	return out
}
