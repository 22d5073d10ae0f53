// Package catalog provides a client for the station library catalog service
// and the two lookups built on it: per-release verification and the full
// owned discography of an artist.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// worstDistance is used when the service omits a distance score.
const worstDistance = 1.0

// Release is a candidate library release returned by the catalog service.
// Distances are fuzzy-match scores in [0,1]; lower is closer.
type Release struct {
	AlbumTitle string
	ArtistName string
	Year       string
	Label      string
	Format     string
	ArtistDist float64
	AlbumDist  float64
}

// releaseResult is the raw catalog record.
type releaseResult struct {
	AlbumTitle string     `json:"album_title"`
	ArtistName string     `json:"artist_name"`
	Year       flexString `json:"year"`
	Label      string     `json:"label"`
	FormatName string     `json:"format_name"`
	ArtistDist *float64   `json:"artist_dist"`
	AlbumDist  *float64   `json:"album_dist"`
}

func (r releaseResult) convert() Release {
	return Release{
		AlbumTitle: r.AlbumTitle,
		ArtistName: r.ArtistName,
		Year:       string(r.Year),
		Label:      r.Label,
		Format:     r.FormatName,
		ArtistDist: distanceOrWorst(r.ArtistDist),
		AlbumDist:  distanceOrWorst(r.AlbumDist),
	}
}

func distanceOrWorst(d *float64) float64 {
	if d == nil {
		return worstDistance
	}
	return *d
}

// flexString accepts a JSON string, number or null.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*s = flexString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = flexString(n.String())
	return nil
}
