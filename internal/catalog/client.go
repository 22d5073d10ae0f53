package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wxyc/wxyc-discogs/internal/auth"
	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

// DefaultURL is the library catalog endpoint.
const DefaultURL = "http://api.wxyc.org/library"

// LookupParams selects catalog candidates. Empty fields are not sent.
type LookupParams struct {
	Title  string
	Artist string
	Limit  int
}

// Client provides access to the library catalog service.
type Client struct {
	baseURL    string
	session    auth.Session
	httpClient *http.Client
}

// NewClient creates a catalog client. Requests carry the session's access
// token when the session is authenticated. An empty baseURL selects DefaultURL.
func NewClient(baseURL string, session auth.Session) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL:    baseURL,
		session:    session,
		httpClient: upstream.NewHTTPClient(),
	}
}

// Lookup returns the catalog's candidate releases for the given filters.
func (c *Client) Lookup(ctx context.Context, p LookupParams) ([]Release, error) {
	params := url.Values{}
	if p.Title != "" {
		params.Set("album_title", p.Title)
	}
	if p.Artist != "" {
		params.Set("artist_name", libraryArtist(p.Artist))
	}
	if p.Limit > 0 {
		params.Set("n", strconv.Itoa(p.Limit))
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.session.IsAuthenticated() {
		req.Header.Set("Authorization", c.session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.Transport(upstream.ServiceLibrary, "lookup", err)
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus(upstream.ServiceLibrary, "lookup", resp); err != nil {
		return nil, err
	}

	var results []releaseResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, upstream.Decode(upstream.ServiceLibrary, "lookup", err)
	}

	releases := make([]Release, 0, len(results))
	for _, r := range results {
		releases = append(releases, r.convert())
	}
	return releases, nil
}

// libraryArtist maps the Discogs compilation token back to the library's spelling.
func libraryArtist(artist string) string {
	if release.IsVarious(artist) {
		return release.VariousArtists
	}
	return artist
}
