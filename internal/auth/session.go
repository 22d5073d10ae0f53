// Package auth authenticates station users against the identity provider and
// carries the resulting session to the services that need it.
package auth

import "time"

// Session is the authenticated state handed to every collaborator that talks
// to the library catalog. The zero value is an unauthenticated session.
type Session struct {
	Username    string
	AccessToken string
	ExpiresAt   time.Time
}

// IsAuthenticated returns true if the session carries an access token.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Expired reports whether the token has a known expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
