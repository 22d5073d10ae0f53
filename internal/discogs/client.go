package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wxyc/wxyc-discogs/internal/release"
	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

const (
	// DefaultURL is the Discogs database search endpoint.
	DefaultURL = "https://api.discogs.com/database/search"
	userAgent  = "WXYC-Discogs-Search/1.0"

	// PerPage is the fixed page size requested from Discogs.
	PerPage = 10
	// releaseGroupType restricts results to master releases (one per release group).
	releaseGroupType = "master"
)

// Client provides access to the Discogs search API.
type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
}

// NewClient creates a new Discogs API client. An empty baseURL selects DefaultURL.
func NewClient(baseURL, key, secret string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL:    baseURL,
		key:        key,
		secret:     secret,
		httpClient: upstream.NewHTTPClient(),
	}
}

// Search fetches one page of master releases matching the artist and track.
// Pages are 1-based. A response without pagination metadata counts as a
// single page.
func (c *Client) Search(ctx context.Context, query release.SearchQuery, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	query = query.Normalize()

	params := url.Values{}
	params.Set("artist", query.Artist)
	params.Set("track", query.Track)
	params.Set("type", releaseGroupType)
	params.Set("per_page", strconv.Itoa(PerPage))
	params.Set("page", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.Transport(upstream.ServiceDiscogs, "search", err)
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus(upstream.ServiceDiscogs, "search", resp); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, upstream.Decode(upstream.ServiceDiscogs, "search", err)
	}

	totalPages := 1
	if result.Pagination != nil && result.Pagination.Pages > 0 {
		totalPages = result.Pagination.Pages
	}

	return &SearchPage{
		Page:       page,
		TotalPages: totalPages,
		Results:    result.Results,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Discogs key=%s, secret=%s", c.key, c.secret))
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
}
