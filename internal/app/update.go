package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/errmsg"
	"github.com/wxyc/wxyc-discogs/internal/keymap"
	"github.com/wxyc/wxyc-discogs/internal/pager"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/session"
)

const (
	msgBadCredentials = "Error: Incorrect username or password"
	msgNewPassword    = "Error: New password required"
	msgEmptyQuery     = "Enter an artist or a track title"
	msgEmptyUsername  = "Enter your username"
	msgLibraryLoading = "Library discography is still loading"
	msgSessionExpired = "Session expired, log in again"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.login.setWidth(msg.Width)
		m.search.setWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoadingTickMsg:
		if m.busy || m.libraryLoading() {
			m.loadingFrame++
			return m, LoadingTickCmd()
		}
		return m, nil

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case SearchResultMsg:
		return m.handleSearchResult(msg)

	case PageResultMsg:
		return m.handlePageResult(msg)

	case DiscographyMsg:
		return m.handleDiscography(msg)
	}

	return m.updateInputs(msg)
}

// updateInputs forwards non-key messages (cursor blink) to the active form.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.update(msg)
	case ScreenSearch:
		m.search, cmd = m.search.update(msg)
	case ScreenResults:
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.busy {
		// Only quitting is allowed while a request is in flight.
		return m, nil
	}

	switch m.screen {
	case ScreenLogin, ScreenSearch:
		return m.handleFormKey(msg)
	case ScreenResults:
		return m.handleResultsKey(msg)
	}
	return m, nil
}

// handleFormKey drives the active form: enter advances to the next field and
// submits from the last one.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f, submit := &m.login, Model.submitLogin
	if m.screen == ScreenSearch {
		f, submit = &m.search, Model.submitSearch
	}

	switch m.formKeys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionSubmit:
		if f.next() {
			return m, nil
		}
		return submit(m)
	case keymap.ActionNextField:
		f.next()
		return m, nil
	case keymap.ActionPrevField:
		f.prev()
		return m, nil
	}

	var cmd tea.Cmd
	*f, cmd = f.update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username := m.login.value(0)
	if username == "" {
		m.errorMsg = msgEmptyUsername
		m.login.focusField(0)
		return m, nil
	}
	m.errorMsg = ""
	tick := m.startBusy("Logging in")
	return m, tea.Batch(loginCmd(m.ctx, m.auth, username, m.login.value(1)), tick)
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	m.stopBusy()
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, auth.ErrInvalidCredentials):
			m.errorMsg = msgBadCredentials
		case errors.Is(msg.Err, auth.ErrNewPasswordRequired):
			m.errorMsg = msgNewPassword
		default:
			m.errorMsg = errmsg.Format(errmsg.OpLogin, msg.Err)
		}
		m.log.Warn("login failed", "username", m.login.value(0), "error", msg.Err)
		m.login.setValue(1, "")
		m.login.focusField(1)
		return m, nil
	}

	m.log.Info("logged in", "username", msg.Session.Username)
	m.session = msg.Session
	m.browser = m.connect(msg.Session)
	m.errorMsg = ""
	m.login.reset()
	m.screen = ScreenSearch
	m.search.focusField(0)
	return m, tea.Batch(blinkCmd(), m.waitForDiscography())
}

func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	q := release.SearchQuery{Artist: m.search.value(0), Track: m.search.value(1)}
	if q.IsEmpty() {
		m.errorMsg = msgEmptyQuery
		m.search.focusField(0)
		return m, nil
	}
	if m.auth != nil && m.session.Expired(time.Now()) {
		return m.expireSession()
	}
	m.errorMsg = ""
	m.status = ""
	m.libraryArtist = ""
	m.libraryCount = 0
	tick := m.startBusy("Searching")
	return m, tea.Batch(newQueryCmd(m.ctx, m.browser, q), tick)
}

// expireSession drops the browser bound to the old token and returns to the
// login screen.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	m.log.Info("session expired", "username", m.session.Username)
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	m.session = auth.Session{}
	m.view = session.View{}
	m.screen = ScreenLogin
	m.errorMsg = msgSessionExpired
	m.login.focusField(0)
	return m, blinkCmd()
}

func (m Model) handleSearchResult(msg SearchResultMsg) (tea.Model, tea.Cmd) {
	m.stopBusy()
	m.screen = ScreenResults
	m.refresh()
	if msg.Err != nil {
		m.errorMsg = errmsg.Format(errmsg.OpSearch, msg.Err)
		return m, nil
	}
	m.errorMsg = ""
	return m, nil
}

func (m Model) handlePageResult(msg PageResultMsg) (tea.Model, tea.Cmd) {
	m.stopBusy()
	if msg.Err != nil {
		if !errors.Is(msg.Err, pager.ErrStale) {
			m.errorMsg = errmsg.Format(msg.Op, msg.Err)
		}
		return m, nil
	}
	m.errorMsg = ""
	m.refresh()
	return m, nil
}

func (m Model) handleDiscography(msg DiscographyMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event
	wait := m.waitForDiscography()
	if m.browser == nil || ev.Generation != m.browser.LibraryGeneration() {
		return m, wait
	}

	if ev.Err != nil {
		m.libraryArtist = ""
		m.libraryCount = 0
	} else {
		m.libraryArtist = ev.Artist
		m.libraryCount = ev.Count
	}
	if m.view.LibraryView {
		m.refresh()
		if ev.Err != nil {
			m.errorMsg = errmsg.FormatWith(errmsg.OpLibraryTab, ev.Artist, ev.Err)
		}
	}
	return m, wait
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.resultsKeys.Resolve(msg.String())
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit

	case keymap.ActionNewSearch:
		m.screen = ScreenSearch
		m.errorMsg = ""
		m.status = ""
		m.search.reset()
		return m, blinkCmd()

	case keymap.ActionToggleLibrary:
		m.browser.ToggleLibraryView()
		m.errorMsg = ""
		m.status = ""
		m.refresh()
		if m.view.LibraryView && m.view.Err != nil {
			m.errorMsg = errmsg.FormatWith(errmsg.OpLibraryTab, m.view.Query.Artist, m.view.Err)
		}
		if m.libraryLoading() {
			return m, LoadingTickCmd()
		}
		return m, nil

	case keymap.ActionNextPage, keymap.ActionPrevPage, keymap.ActionFirstPage, keymap.ActionLastPage:
		if m.view.LibraryView {
			return m.moveLibrary(action)
		}
		return m.moveResults(action)
	}
	return m, nil
}

// target returns the page action moves to from cursor.
func target(action keymap.Action, cursor pager.Cursor) int {
	switch action {
	case keymap.ActionNextPage:
		return min(cursor.Current+1, cursor.Total)
	case keymap.ActionPrevPage:
		return max(cursor.Current-1, 1)
	case keymap.ActionFirstPage:
		return 1
	case keymap.ActionLastPage:
		return cursor.Total
	}
	return cursor.Current
}

func (m Model) moveResults(action keymap.Action) (tea.Model, tea.Cmd) {
	snap := m.browser.Snapshot()
	page := target(action, snap.Cursor)
	if page == snap.Cursor.Current && snap.Ready {
		// Boundary: nothing to load.
		return m, nil
	}

	var cmd tea.Cmd
	switch action {
	case keymap.ActionNextPage:
		cmd = pageCmd(m.ctx, errmsg.OpPageNext, m.browser.Next)
	case keymap.ActionPrevPage:
		cmd = pageCmd(m.ctx, errmsg.OpPagePrev, m.browser.Previous)
	default:
		cmd = pageCmd(m.ctx, errmsg.OpPageJump, func(ctx context.Context) ([]release.Enriched, error) {
			return m.browser.Jump(ctx, page)
		})
	}
	m.status = ""
	tick := m.startBusy("Loading")
	return m, tea.Batch(cmd, tick)
}

// moveLibrary pages through the discography, which is already in memory.
func (m Model) moveLibrary(action keymap.Action) (tea.Model, tea.Cmd) {
	page := target(action, m.view.Cursor)

	var err error
	switch action {
	case keymap.ActionNextPage:
		_, err = m.browser.LibraryNext(m.ctx)
	case keymap.ActionPrevPage:
		_, err = m.browser.LibraryPrevious(m.ctx)
	default:
		_, err = m.browser.LibraryJump(m.ctx, page)
	}

	switch {
	case errors.Is(err, pager.ErrNotReady):
		m.status = msgLibraryLoading
	case err != nil:
		m.errorMsg = errmsg.FormatWith(errmsg.OpLibraryTab, m.view.Query.Artist, err)
	default:
		m.errorMsg = ""
		m.status = ""
	}
	m.refresh()
	return m, nil
}
