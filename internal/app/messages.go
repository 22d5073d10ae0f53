package app

import (
	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/errmsg"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/session"
)

// LoginResultMsg is sent when authentication completes.
type LoginResultMsg struct {
	Session auth.Session
	Err     error
}

// SearchResultMsg is sent when the first page of a new query is ready.
type SearchResultMsg struct {
	Query release.SearchQuery
	Err   error
}

// PageResultMsg is sent when a page navigation completes.
type PageResultMsg struct {
	Op  errmsg.Op
	Err error
}

// DiscographyMsg relays a background discography load.
type DiscographyMsg struct {
	Event session.DiscographyEvent
}

// LoadingTickMsg advances the loading animation.
type LoadingTickMsg struct{}
