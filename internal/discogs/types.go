// Package discogs provides a client for the Discogs database search API.
package discogs

// RawResult is a single search hit as Discogs returns it. Title is the
// compound "<artist> - <title>" form.
type RawResult struct {
	ID         int      `json:"id"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Country    string   `json:"country"`
	Label      []string `json:"label"`
	Format     []string `json:"format"`
	Genre      []string `json:"genre"`
	Style      []string `json:"style"`
	Thumb      string   `json:"thumb"`
	CoverImage string   `json:"cover_image"`
}

// FirstLabel returns the first listed label, or "" when there is none.
func (r RawResult) FirstLabel() string {
	if len(r.Label) == 0 {
		return ""
	}
	return r.Label[0]
}

// FirstFormat returns the first listed format, or "" when there is none.
func (r RawResult) FirstFormat() string {
	if len(r.Format) == 0 {
		return ""
	}
	return r.Format[0]
}

// SearchPage is one page of results plus the provider's page count.
type SearchPage struct {
	Page       int
	TotalPages int
	Results    []RawResult
}

// searchResponse is the raw response from /database/search.
type searchResponse struct {
	Pagination *pagination `json:"pagination"`
	Results    []RawResult `json:"results"`
}

type pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}
