package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

var (
	// ErrInvalidCredentials is returned when the username or password is wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrNewPasswordRequired is returned when the account must set a new
	// password before it can sign in.
	ErrNewPasswordRequired = errors.New("new password required")
)

const (
	initiateAuthTarget   = "AWSCognitoIdentityProviderService.InitiateAuth"
	amzJSONContentType   = "application/x-amz-json-1.1"
	userPasswordFlow     = "USER_PASSWORD_AUTH"
	newPasswordChallenge = "NEW_PASSWORD_REQUIRED"
)

// Client signs users in through the Cognito InitiateAuth API.
type Client struct {
	endpoint   string
	clientID   string
	httpClient *http.Client
	now        func() time.Time
}

// Endpoint returns the regional identity provider endpoint.
func Endpoint(region string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", region)
}

// NewClient creates an identity client for the given endpoint and app client ID.
func NewClient(endpoint, clientID string) *Client {
	return &Client{
		endpoint:   endpoint,
		clientID:   clientID,
		httpClient: upstream.NewHTTPClient(),
		now:        time.Now,
	}
}

type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	AuthParameters map[string]string `json:"AuthParameters"`
	ClientID       string            `json:"ClientId"`
}

type initiateAuthResponse struct {
	ChallengeName        string `json:"ChallengeName"`
	Session              string `json:"Session"`
	AuthenticationResult *struct {
		AccessToken string `json:"AccessToken"`
		ExpiresIn   int    `json:"ExpiresIn"`
		TokenType   string `json:"TokenType"`
	} `json:"AuthenticationResult"`
}

type errorResponse struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// Authenticate exchanges a username and password for a session.
func (c *Client) Authenticate(ctx context.Context, username, password string) (Session, error) {
	body, err := json.Marshal(initiateAuthRequest{
		AuthFlow: userPasswordFlow,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
		ClientID: c.clientID,
	})
	if err != nil {
		return Session{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Session{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Amz-Target", initiateAuthTarget)
	req.Header.Set("Content-Type", amzJSONContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, upstream.Transport(upstream.ServiceIdentity, "authenticate", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && isCredentialError(e.Type) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, &upstream.Error{
			Service:    upstream.ServiceIdentity,
			Op:         "authenticate",
			StatusCode: resp.StatusCode,
			Body:       e.Message,
		}
	}
	if err := upstream.CheckStatus(upstream.ServiceIdentity, "authenticate", resp); err != nil {
		return Session{}, err
	}

	var result initiateAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Session{}, upstream.Decode(upstream.ServiceIdentity, "authenticate", err)
	}

	if result.ChallengeName == newPasswordChallenge {
		return Session{}, ErrNewPasswordRequired
	}
	if result.AuthenticationResult == nil || result.AuthenticationResult.AccessToken == "" {
		return Session{}, &upstream.Error{
			Service: upstream.ServiceIdentity,
			Op:      "authenticate",
			Err:     errors.New("response has no access token"),
		}
	}

	session := Session{
		Username:    username,
		AccessToken: result.AuthenticationResult.AccessToken,
	}
	if ttl := result.AuthenticationResult.ExpiresIn; ttl > 0 {
		session.ExpiresAt = c.now().Add(time.Duration(ttl) * time.Second)
	}
	return session, nil
}

func isCredentialError(errType string) bool {
	switch errType {
	case "NotAuthorizedException", "UserNotFoundException":
		return true
	}
	return false
}
