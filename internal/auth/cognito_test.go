package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c := NewClient(ts.URL, "client-123")
	c.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestAuthenticate_Success(t *testing.T) {
	var gotReq initiateAuthRequest
	var gotTarget, gotContentType string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.Header.Get("X-Amz-Target")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_, _ = w.Write([]byte(`{"AuthenticationResult":{"AccessToken":"tok-abc","ExpiresIn":3600,"TokenType":"Bearer"}}`))
	})

	session, err := c.Authenticate(context.Background(), "dj", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, initiateAuthTarget, gotTarget)
	assert.Equal(t, amzJSONContentType, gotContentType)
	assert.Equal(t, "USER_PASSWORD_AUTH", gotReq.AuthFlow)
	assert.Equal(t, "client-123", gotReq.ClientID)
	assert.Equal(t, "dj", gotReq.AuthParameters["USERNAME"])
	assert.Equal(t, "hunter2", gotReq.AuthParameters["PASSWORD"])

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "dj", session.Username)
	assert.Equal(t, "tok-abc", session.AccessToken)
	assert.Equal(t, time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC), session.ExpiresAt)
}

func TestAuthenticate_NewPasswordChallenge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ChallengeName":"NEW_PASSWORD_REQUIRED","Session":"sess"}`))
	})

	_, err := c.Authenticate(context.Background(), "dj", "temp")
	assert.ErrorIs(t, err, ErrNewPasswordRequired)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	for _, errType := range []string{"NotAuthorizedException", "UserNotFoundException"} {
		t.Run(errType, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"__type":"` + errType + `","message":"Incorrect username or password."}`))
			})

			_, err := c.Authenticate(context.Background(), "dj", "nope")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticate_OtherBadRequestIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"__type":"ResourceNotFoundException","message":"User pool client does not exist."}`))
	})

	_, err := c.Authenticate(context.Background(), "dj", "pw")
	var ue *upstream.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Equal(t, "User pool client does not exist.", ue.Body)
}

func TestAuthenticate_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Authenticate(context.Background(), "dj", "pw")
	assert.True(t, upstream.IsError(err))
}

func TestAuthenticate_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	session, err := c.Authenticate(context.Background(), "dj", "pw")
	assert.True(t, upstream.IsError(err))
	assert.False(t, session.IsAuthenticated())
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/", Endpoint("us-east-1"))
}

func TestSession(t *testing.T) {
	var zero Session
	assert.False(t, zero.IsAuthenticated())
	assert.False(t, zero.Expired(time.Now()))

	s := Session{AccessToken: "t", ExpiresAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.Expired(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.Expired(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
}
