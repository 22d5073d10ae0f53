package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wxyc/wxyc-discogs/internal/errmsg"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/session"
)

const loadingTick = 300 * time.Millisecond

// LoadingTickCmd returns a command that sends LoadingTickMsg for animation.
func LoadingTickCmd() tea.Cmd {
	return tea.Tick(loadingTick, func(_ time.Time) tea.Msg {
		return LoadingTickMsg{}
	})
}

func blinkCmd() tea.Cmd {
	return textinput.Blink
}

// loginCmd authenticates in the background.
func loginCmd(ctx context.Context, a Authenticator, username, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := a.Authenticate(ctx, username, password)
		return LoginResultMsg{Session: s, Err: err}
	}
}

// newQueryCmd runs a new search and waits for its first page.
func newQueryCmd(ctx context.Context, b Browser, q release.SearchQuery) tea.Cmd {
	return func() tea.Msg {
		_, err := b.NewQuery(ctx, q)
		return SearchResultMsg{Query: q, Err: err}
	}
}

// pageCmd moves the search-result cursor with move.
func pageCmd(ctx context.Context, op errmsg.Op, move func(context.Context) ([]release.Enriched, error)) tea.Cmd {
	return func() tea.Msg {
		_, err := move(ctx)
		return PageResultMsg{Op: op, Err: err}
	}
}

// waitForChannel blocks on one receive from ch and converts it with onResult;
// ok is false once ch is closed.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// waitForDiscography waits for the next background discography load.
func (m Model) waitForDiscography() tea.Cmd {
	if m.browser == nil {
		return nil
	}
	return waitForChannel(m.browser.Events(), func(ev session.DiscographyEvent, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return DiscographyMsg{Event: ev}
	})
}
