package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/discogs"
	"github.com/wxyc/wxyc-discogs/internal/enrich"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/session"
	"github.com/wxyc/wxyc-discogs/internal/ui/testutil"
	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

// === Fakes ===

type stubAuth struct {
	mu      sync.Mutex
	errs    []error
	calls   []string
	expires time.Time
}

func (a *stubAuth) Authenticate(_ context.Context, username, password string) (auth.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, username+":"+password)
	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		if err != nil {
			return auth.Session{}, err
		}
	}
	return auth.Session{Username: username, AccessToken: "token-" + username, ExpiresAt: a.expires}, nil
}

type stubSearcher struct {
	mu    sync.Mutex
	total int
	fail  map[int]error
	pages []int
}

func (s *stubSearcher) Search(_ context.Context, q release.SearchQuery, page int) (*discogs.SearchPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
	if err := s.fail[page]; err != nil {
		return nil, err
	}
	results := []discogs.RawResult{
		{Title: fmt.Sprintf("%s - Album p%d #0", q.Artist, page), Year: "1996", Label: []string{"Duophonic"}, Format: []string{"Vinyl"}},
		{Title: fmt.Sprintf("%s (2) - Album p%d #1", q.Artist, page), Label: []string{"Elektra"}},
	}
	return &discogs.SearchPage{Page: page, TotalPages: s.total, Results: results}, nil
}

func (s *stubSearcher) calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pages...)
}

func (s *stubSearcher) setFail(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[page] = err
}

// ownsFirst marks the first result of each page as owned.
type ownsFirst struct{}

func (ownsFirst) Verify(_ context.Context, _, title string) bool {
	return strings.HasSuffix(title, "#0")
}

type stubDiscography struct {
	gate    chan struct{}
	entries []release.DiscographyEntry
}

func (d *stubDiscography) FetchAll(ctx context.Context, artist string) ([]release.DiscographyEntry, error) {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([]release.DiscographyEntry, len(d.entries))
	for i, e := range d.entries {
		e.Artist = artist
		out[i] = e
	}
	return out, nil
}

type fixture struct {
	h          *testutil.ModelHarness
	searcher   *stubSearcher
	disc       *stubDiscography
	sessions   []auth.Session
	controller *session.Controller
}

func newFixture(t *testing.T, a Authenticator) *fixture {
	t.Helper()
	f := &fixture{
		searcher: &stubSearcher{total: 3, fail: map[int]error{}},
		disc:     &stubDiscography{},
	}
	for i := range 12 {
		f.disc.entries = append(f.disc.entries, release.DiscographyEntry{Title: fmt.Sprintf("Owned #%d", i), InLibrary: true})
	}
	connect := func(s auth.Session) Browser {
		f.sessions = append(f.sessions, s)
		f.controller = session.New(f.searcher, enrich.New(ownsFirst{}, nil), f.disc, nil)
		return f.controller
	}
	m := New(Options{Auth: a, Connect: connect})
	f.h = testutil.NewModelHarness(m)
	f.h.SetSize(120, 30)
	t.Cleanup(func() { f.model(t).Close() })
	return f
}

func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	m, ok := f.h.Model().(Model)
	require.True(t, ok, "expected app.Model")
	return m
}

func (f *fixture) view() string {
	return testutil.StripANSI(f.h.View())
}

// search fills the search form and waits for the first page.
func (f *fixture) search(t *testing.T, artist, track string) {
	t.Helper()
	f.h.Type(artist)
	f.h.SendEnter()
	f.h.Type(track)
	cmd := f.h.SendEnter()
	require.NotNil(t, cmd)
	require.True(t, f.model(t).Busy())
	f.h.Await(t, cmd, testutil.MsgOf[SearchResultMsg])
}

func (f *fixture) press(t *testing.T, key string) {
	t.Helper()
	cmd := f.h.SendKey(key)
	require.NotNil(t, cmd, "expected a command for %q", key)
	f.h.Await(t, cmd, testutil.MsgOf[PageResultMsg])
}

// === Login ===

func TestApp_StartsOnLoginWhenAuthConfigured(t *testing.T) {
	f := newFixture(t, &stubAuth{})

	assert.Equal(t, ScreenLogin, f.model(t).Screen())
	assert.Contains(t, f.view(), "Enter your username:")
	assert.Contains(t, f.view(), "Enter your password:")
}

func TestApp_StartsOnSearchWithoutAuth(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, ScreenSearch, f.model(t).Screen())
	assert.Contains(t, f.view(), "Enter artist name:")
	require.Len(t, f.sessions, 1)
	assert.False(t, f.sessions[0].IsAuthenticated())
}

func TestApp_LoginSuccess(t *testing.T) {
	a := &stubAuth{}
	f := newFixture(t, a)

	f.h.Type("dj")
	f.h.SendEnter()
	f.h.Type("hunter2")
	assert.NotContains(t, f.view(), "hunter2", "password is masked")

	cmd := f.h.SendEnter()
	require.NotNil(t, cmd)
	f.h.Await(t, cmd, testutil.MsgOf[LoginResultMsg])

	m := f.model(t)
	assert.Equal(t, ScreenSearch, m.Screen())
	assert.Equal(t, "token-dj", m.Session().AccessToken)
	assert.Equal(t, []string{"dj:hunter2"}, a.calls)
	require.Len(t, f.sessions, 1)
	assert.Equal(t, "token-dj", f.sessions[0].AccessToken)
}

func TestApp_LoginFailureAllowsRetry(t *testing.T) {
	a := &stubAuth{errs: []error{auth.ErrInvalidCredentials, nil}}
	f := newFixture(t, a)

	f.h.Type("dj")
	f.h.SendEnter()
	f.h.Type("wrong")
	f.h.Await(t, f.h.SendEnter(), testutil.MsgOf[LoginResultMsg])

	assert.Equal(t, ScreenLogin, f.model(t).Screen())
	assert.Contains(t, f.view(), "Error: Incorrect username or password")
	assert.Empty(t, f.sessions)

	f.h.Type("right")
	f.h.Await(t, f.h.SendEnter(), testutil.MsgOf[LoginResultMsg])

	assert.Equal(t, ScreenSearch, f.model(t).Screen())
	assert.Equal(t, []string{"dj:wrong", "dj:right"}, a.calls)
}

func TestApp_LoginUpstreamError(t *testing.T) {
	a := &stubAuth{errs: []error{&upstream.Error{Service: upstream.ServiceIdentity, Op: "initiate auth", StatusCode: 503}}}
	f := newFixture(t, a)

	f.h.Type("dj")
	f.h.SendEnter()
	f.h.Type("pw")
	f.h.Await(t, f.h.SendEnter(), testutil.MsgOf[LoginResultMsg])

	assert.Contains(t, f.view(), "Failed to log in: identity is unavailable (status 503)")
}

func TestApp_EmptyUsernameRejected(t *testing.T) {
	f := newFixture(t, &stubAuth{})

	f.h.SendEnter()
	cmd := f.h.SendEnter()

	assert.Nil(t, cmd)
	assert.Contains(t, f.view(), "Enter your username")
}

func TestApp_ExpiredSessionReturnsToLogin(t *testing.T) {
	a := &stubAuth{expires: time.Now().Add(-time.Minute)}
	f := newFixture(t, a)

	f.h.Type("dj")
	f.h.SendEnter()
	f.h.Type("pw")
	f.h.Await(t, f.h.SendEnter(), testutil.MsgOf[LoginResultMsg])
	require.Equal(t, ScreenSearch, f.model(t).Screen())

	f.h.Type("Broadcast")
	f.h.SendEnter()
	f.h.SendEnter()

	m := f.model(t)
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, m.Busy())
	assert.False(t, m.Session().IsAuthenticated())
	assert.Contains(t, f.view(), "Session expired, log in again")
	assert.Empty(t, f.searcher.calls(), "no search is sent with an expired token")

	a.expires = time.Time{}
	f.h.Type("dj")
	f.h.SendEnter()
	f.h.Type("pw")
	f.h.Await(t, f.h.SendEnter(), testutil.MsgOf[LoginResultMsg])

	assert.Equal(t, ScreenSearch, f.model(t).Screen())
	assert.Len(t, f.sessions, 2)
}

// === Search ===

func TestApp_SearchShowsResultsTable(t *testing.T) {
	f := newFixture(t, nil)

	f.search(t, "Stereolab", "Cybele's Reverie")

	m := f.model(t)
	assert.Equal(t, ScreenResults, m.Screen())
	assert.False(t, m.Busy())

	out := f.view()
	for _, want := range []string{"Title", "Artist", "Year", "Label", "Format", "WXYC"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "Album p1 #0")
	assert.Contains(t, out, "Duophonic")
	assert.Contains(t, out, "1996")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "X")
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "Stereolab (2)", "disambiguation suffix is stripped")
	assert.Contains(t, out, "Page 1 of 3")
	assert.Contains(t, out, "Controls: [n]ext, [b]ack")
}

func TestApp_ViewFillsScreen(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Broadcast", "")

	lines := strings.Split(f.h.View(), "\n")
	assert.Len(t, lines, 30)
	assert.True(t, strings.HasPrefix(testutil.StripANSI(lines[len(lines)-2]), "Page 1 of 3"))
}

func TestApp_EmptyQueryRejected(t *testing.T) {
	f := newFixture(t, nil)

	f.h.SendEnter()
	cmd := f.h.SendEnter()

	assert.Nil(t, cmd)
	assert.Equal(t, ScreenSearch, f.model(t).Screen())
	assert.Contains(t, f.view(), "Enter an artist or a track title")
}

func TestApp_FormLettersAreTyped(t *testing.T) {
	f := newFixture(t, nil)

	cmd := f.h.SendKey("q")

	if cmd != nil {
		_, isQuit := testutil.ExecuteCmd(cmd).(tea.QuitMsg)
		assert.False(t, isQuit, "q types into the form")
	}
	assert.Equal(t, "q", f.model(t).search.value(0))
}

func TestApp_SearchFailureShowsError(t *testing.T) {
	f := newFixture(t, nil)
	f.searcher.setFail(1, &upstream.Error{Service: upstream.ServiceDiscogs, Op: "search", StatusCode: 401})

	f.search(t, "Stereolab", "")

	assert.Equal(t, ScreenResults, f.model(t).Screen())
	assert.Contains(t, f.view(), "Failed to search Discogs: discogs rejected the request (status 401)")
}

// === Pagination ===

func TestApp_NextPreviousAndBoundaries(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Low", "")

	assert.Nil(t, f.h.SendKey("b"), "previous on page 1 is a no-op")

	f.press(t, "n")
	assert.Contains(t, f.view(), "Page 2 of 3")
	assert.Contains(t, f.view(), "Album p2 #0")

	f.press(t, "G")
	assert.Contains(t, f.view(), "Page 3 of 3")

	assert.Nil(t, f.h.SendKey("n"), "next on the last page is a no-op")
	assert.Contains(t, f.view(), "Page 3 of 3")

	f.press(t, "g")
	assert.Contains(t, f.view(), "Page 1 of 3")
}

func TestApp_FailedPageKeepsDisplayedPage(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Yo La Tengo", "")
	f.searcher.setFail(2, &upstream.Error{Service: upstream.ServiceDiscogs, Op: "search", StatusCode: 502})

	f.press(t, "n")

	out := f.view()
	assert.Contains(t, out, "Failed to load next page")
	assert.Contains(t, out, "Album p1 #0")
	assert.Contains(t, out, "Page 1 of 3")
}

func TestApp_BusyShowsLoadingAndIgnoresKeys(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Can", "")

	cmd := f.h.SendKey("n")
	require.NotNil(t, cmd)
	require.True(t, f.model(t).Busy())
	assert.Contains(t, f.view(), "Loading")
	assert.Contains(t, f.view(), "Album p1 #0", "previous page stays visible under the overlay")

	assert.Nil(t, f.h.SendKey("s"))
	assert.Equal(t, ScreenResults, f.model(t).Screen())

	f.h.Await(t, cmd, testutil.MsgOf[PageResultMsg])
	assert.False(t, f.model(t).Busy())
}

// === Library view ===

func TestApp_LibraryViewNotReadyThenReady(t *testing.T) {
	f := newFixture(t, nil)
	f.disc.gate = make(chan struct{})
	initCmd := f.h.Commands()[0]

	f.search(t, "Stereolab", "")

	cmd := f.h.SendKey("l")
	require.NotNil(t, cmd)
	assert.Contains(t, f.view(), "Loading library discography")
	assert.Contains(t, f.view(), "[library]")

	close(f.disc.gate)
	f.h.Await(t, initCmd, testutil.MsgOf[DiscographyMsg])

	out := f.view()
	assert.Contains(t, out, "Owned #0")
	assert.Contains(t, out, "Page 1 of 2")
	assert.Contains(t, out, "Library: 12 releases by Stereolab")

	assert.Nil(t, f.h.SendKey("n"), "library pages are served from memory")
	assert.Contains(t, f.view(), "Owned #10")
	assert.Contains(t, f.view(), "Page 2 of 2")

	f.h.SendKey("l")
	assert.Contains(t, f.view(), "Album p1 #0")
	assert.Contains(t, f.view(), "Page 1 of 3", "search cursor is independent")
}

func TestApp_LibraryKeysWhileLoading(t *testing.T) {
	f := newFixture(t, nil)
	f.disc.gate = make(chan struct{})
	t.Cleanup(func() { close(f.disc.gate) })

	f.search(t, "Broadcast", "")
	f.h.SendKey("l")
	f.h.SendKey("n")

	assert.Contains(t, f.view(), "Library discography is still loading")
}

// === Navigation between screens ===

func TestApp_NewSearchKeyReturnsToForm(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Pavement", "Gold Soundz")

	f.h.SendKey("s")

	m := f.model(t)
	assert.Equal(t, ScreenSearch, m.Screen())
	assert.Empty(t, m.search.value(0))
	assert.Empty(t, m.search.value(1))
}

func TestApp_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEscape},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(key.String(), func(t *testing.T) {
			f := newFixture(t, nil)
			f.search(t, "Galaxie 500", "")

			cmd := f.h.SendMsg(key)
			require.NotNil(t, cmd)
			_, ok := testutil.ExecuteCmd(cmd).(tea.QuitMsg)
			assert.True(t, ok)
		})
	}
}

func TestApp_CtrlCQuitsWhileBusy(t *testing.T) {
	a := &stubAuth{}
	f := newFixture(t, a)
	f.h.Type("dj")
	f.h.SendEnter()
	require.NotNil(t, f.h.SendEnter())
	require.True(t, f.model(t).Busy())

	cmd := f.h.SendSpecialKey(tea.KeyCtrlC)
	_, ok := testutil.ExecuteCmd(cmd).(tea.QuitMsg)
	assert.True(t, ok)
}

// === Rendering helpers ===

func TestLoadingText(t *testing.T) {
	assert.Equal(t, "Loading", loadingText("", 0))
	assert.Equal(t, "Loading...", loadingText("", 3))
	assert.Equal(t, "Searching.", loadingText("Searching", 5))
}

func TestLibraryStatus(t *testing.T) {
	assert.Equal(t, "Library: 1 release by Low", libraryStatus("Low", 1))
	assert.Equal(t, "Library: 1,204 releases by Various", libraryStatus("Various", 1204))
}

func TestLayout(t *testing.T) {
	out := layout("a\nb", "x\ny", 10, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "a", lines[0])
	assert.Equal(t, "y", lines[5])

	out = layout(strings.Repeat("r\n", 20), "f", 10, 5)
	assert.Len(t, strings.Split(out, "\n"), 5)
}

func TestDiscographyEventForOldQueryIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Ride", "")

	f.h.SendMsg(DiscographyMsg{Event: session.DiscographyEvent{Artist: "Slowdive", Count: 99}})

	assert.NotContains(t, f.view(), "Slowdive")
}

func TestDiscographyEventFromReplacedLoadIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.search(t, "Ride", "")
	gen := f.controller.LibraryGeneration()

	f.h.SendMsg(DiscographyMsg{Event: session.DiscographyEvent{Generation: gen - 1, Artist: "Ride", Count: 99}})
	assert.NotContains(t, f.view(), "Library: 99 releases")

	f.h.SendMsg(DiscographyMsg{Event: session.DiscographyEvent{Generation: gen, Artist: "Ride", Count: 7}})
	assert.Contains(t, f.view(), "Library: 7 releases by Ride")
}

func TestWaitForDiscographyEndsWhenBrowserCloses(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(t)
	cmd := m.waitForDiscography()
	require.NotNil(t, cmd)

	m.Close()

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("wait command still blocked after close")
	}
}
