// Package app is the terminal front end: login, search form and the paged
// results table with its library discography toggle.
package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/keymap"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/session"
)

// Screen identifies what the model is showing.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSearch
	ScreenResults
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (auth.Session, error)
}

// Browser is the paging controller driven by the UI.
type Browser interface {
	NewQuery(ctx context.Context, q release.SearchQuery) ([]release.Enriched, error)
	Next(ctx context.Context) ([]release.Enriched, error)
	Previous(ctx context.Context) ([]release.Enriched, error)
	Jump(ctx context.Context, n int) ([]release.Enriched, error)
	LibraryNext(ctx context.Context) ([]release.DiscographyEntry, error)
	LibraryPrevious(ctx context.Context) ([]release.DiscographyEntry, error)
	LibraryJump(ctx context.Context, n int) ([]release.DiscographyEntry, error)
	ToggleLibraryView() bool
	Query() release.SearchQuery
	LibraryGeneration() uint64
	Snapshot() session.View
	Events() <-chan session.DiscographyEvent
	Close()
}

var _ Browser = (*session.Controller)(nil)

// Options configures a Model.
type Options struct {
	Context context.Context
	// Auth enables the login screen. Without it the session is anonymous.
	Auth Authenticator
	// Connect builds the browser once the session is known.
	Connect func(auth.Session) Browser
	Logger  *slog.Logger
}

// Model is the root application model.
type Model struct {
	ctx     context.Context
	log     *slog.Logger
	auth    Authenticator
	connect func(auth.Session) Browser
	browser Browser
	session auth.Session

	screen      Screen
	login       form
	search      form
	formKeys    *keymap.Resolver
	resultsKeys *keymap.Resolver

	view          session.View
	libraryArtist string
	libraryCount  int

	busy         bool
	busyLabel    string
	loadingFrame int

	status   string
	errorMsg string

	width, height int
}

// New creates the model. It starts on the login screen when opts.Auth is
// set, otherwise on the search form.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := Model{
		ctx:         ctx,
		log:         log,
		auth:        opts.Auth,
		connect:     opts.Connect,
		login:       newLoginForm(),
		search:      newSearchForm(),
		formKeys:    keymap.ForContext(keymap.ContextForm),
		resultsKeys: keymap.ForContext(keymap.ContextResults),
		width:       defaultWidth,
		height:      defaultHeight,
	}

	if m.auth != nil {
		m.screen = ScreenLogin
		m.login.focusField(0)
		return m
	}
	m.browser = m.connect(auth.Session{})
	m.screen = ScreenSearch
	m.search.focusField(0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(blinkCmd(), m.waitForDiscography())
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Session returns the authenticated session, if any.
func (m Model) Session() auth.Session {
	return m.session
}

// Busy reports whether a blocking request is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// Close stops background work owned by the browser.
func (m Model) Close() {
	if m.browser != nil {
		m.browser.Close()
	}
}

func (m *Model) startBusy(label string) tea.Cmd {
	m.busy = true
	m.busyLabel = label
	m.loadingFrame = 0
	return LoadingTickCmd()
}

func (m *Model) stopBusy() {
	m.busy = false
	m.busyLabel = ""
}

// refresh reloads the displayed page from the browser cache.
func (m *Model) refresh() {
	if m.browser != nil {
		m.view = m.browser.Snapshot()
	}
}

// libraryLoading reports whether the library view is waiting on the
// background discography load.
func (m Model) libraryLoading() bool {
	return m.screen == ScreenResults && m.view.LibraryView && !m.view.Ready && m.view.Err == nil
}
