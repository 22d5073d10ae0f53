// Package pager provides a page cache paired with a cursor. Pages are either
// fetched on demand from a remote source or filled all at once from a list
// loaded elsewhere and paginated locally.
package pager

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotReady is returned when a locally paginated pager has not been
	// filled yet. It is distinct from an empty result.
	ErrNotReady = errors.New("not ready")
	// ErrStale is returned when a fetch completes after the pager was reset.
	// Its result is discarded.
	ErrStale = errors.New("stale fetch discarded")
)

// FetchFunc loads one 1-based page and reports the total page count.
type FetchFunc[T any] func(ctx context.Context, page int) (items []T, totalPages int, err error)

// Cursor is the current position within a result set. Both fields are >= 1.
type Cursor struct {
	Current int
	Total   int
}

func initialCursor() Cursor {
	return Cursor{Current: 1, Total: 1}
}

// Pager caches pages keyed by page number and tracks a cursor over them.
// A page present in the cache is always complete.
type Pager[T any] struct {
	mu     sync.Mutex
	fetch  FetchFunc[T]
	cache  map[int][]T
	cursor Cursor
	state  State
	err    error
	gen    uint64
	// sized is set once a fetch or Fill has reported the real total.
	sized bool
}

// New creates a pager. A nil fetch makes a local pager that serves pages only
// after Fill.
func New[T any](fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{
		fetch:  fetch,
		cache:  make(map[int][]T),
		cursor: initialCursor(),
	}
}

// Reset drops every cached page, rewinds the cursor to (1, 1), installs a new
// fetch function and starts a new generation. In-flight fetches from earlier
// generations are discarded when they complete. It returns the new generation.
func (p *Pager[T]) Reset(fetch FetchFunc[T]) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.fetch = fetch
	p.cache = make(map[int][]T)
	p.cursor = initialCursor()
	p.state = StateIdle
	p.err = nil
	p.sized = false
	return p.gen
}

// Generation returns the current generation.
func (p *Pager[T]) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// Cursor returns the current cursor.
func (p *Pager[T]) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// State returns the state of the most recent request.
func (p *Pager[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error of the most recent failed request, if any.
func (p *Pager[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Cached returns page n if it is cached.
func (p *Pager[T]) Cached(n int) ([]T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items, ok := p.cache[n]
	return items, ok
}

// Page returns page n, fetching it on a cache miss. It does not move the
// cursor. A failed fetch leaves the cache untouched.
func (p *Pager[T]) Page(ctx context.Context, n int) ([]T, error) {
	n = max(n, 1)

	p.mu.Lock()
	if items, ok := p.cache[n]; ok {
		p.state = StateReady
		p.err = nil
		p.mu.Unlock()
		return items, nil
	}
	if p.fetch == nil {
		err := p.err
		p.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, ErrNotReady
	}
	gen, fetch := p.gen, p.fetch
	p.state = StateFetching
	p.mu.Unlock()

	items, total, err := fetch(ctx, n)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, ErrStale
	}
	if err != nil {
		p.state = StateError
		p.err = err
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	p.cache[n] = items
	p.cursor.Total = max(total, 1)
	p.sized = true
	p.state = StateReady
	p.err = nil
	return items, nil
}

// Jump moves the cursor to page n, clamped to [1, Total], and returns it.
// Before the total is known the page is requested as given and the target is
// clamped against the total that fetch reports. The cursor only moves once
// the page is available.
func (p *Pager[T]) Jump(ctx context.Context, n int) ([]T, error) {
	p.mu.Lock()
	target := max(n, 1)
	if p.sized {
		target = clamp(n, p.cursor.Total)
	}
	gen := p.gen
	p.mu.Unlock()

	items, err := p.Page(ctx, target)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	last := p.cursor.Total
	if target > last && gen == p.gen {
		delete(p.cache, target)
	}
	p.mu.Unlock()
	if target > last {
		target = last
		if items, err = p.Page(ctx, target); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, ErrStale
	}
	p.cursor.Current = clamp(target, p.cursor.Total)
	return items, nil
}

// Next advances one page. At the last page it returns the current page.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	return p.Jump(ctx, p.Cursor().Current+1)
}

// Previous goes back one page. At the first page it returns the current page.
func (p *Pager[T]) Previous(ctx context.Context) ([]T, error) {
	return p.Jump(ctx, p.Cursor().Current-1)
}

// Fill loads a complete list split into pages of perPage items, provided gen
// is still the current generation. An empty list yields one empty page.
// It reports whether the list was committed.
func (p *Pager[T]) Fill(gen uint64, items []T, perPage int) bool {
	perPage = max(perPage, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}

	p.cache = make(map[int][]T)
	page := 1
	for start := 0; start < len(items); start += perPage {
		end := min(start+perPage, len(items))
		p.cache[page] = items[start:end:end]
		page++
	}
	if len(p.cache) == 0 {
		p.cache[1] = []T{}
	}
	p.cursor = Cursor{Current: 1, Total: len(p.cache)}
	p.sized = true
	p.state = StateReady
	p.err = nil
	return true
}

// Fail records a failed load for generation gen. It reports whether the
// failure was recorded.
func (p *Pager[T]) Fail(gen uint64, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	p.state = StateError
	p.err = err
	return true
}

// MarkFetching flags a load started outside the pager for generation gen.
func (p *Pager[T]) MarkFetching(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen == p.gen {
		p.state = StateFetching
	}
}

func clamp(n, total int) int {
	return min(max(n, 1), max(total, 1))
}
