// Package upstream holds the HTTP plumbing shared by the Discogs, library
// catalog and identity clients.
package upstream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// Service names used in errors and log attributes.
const (
	ServiceDiscogs  = "discogs"
	ServiceLibrary  = "library"
	ServiceIdentity = "identity"
)

// Error is a non-success status or transport failure from an upstream service.
type Error struct {
	Service    string
	Op         string
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Service)
	if e.Op != "" {
		b.WriteString(" ")
		b.WriteString(e.Op)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
		if e.Body != "" {
			b.WriteString(": ")
			b.WriteString(e.Body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err is, or wraps, an upstream Error.
func IsError(err error) bool {
	var ue *Error
	return errors.As(err, &ue)
}

// NewHTTPClient returns the client used for all upstream calls.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// Transport wraps a failed Do call.
func Transport(service, op string, err error) error {
	return &Error{Service: service, Op: op, Err: err}
}

// CheckStatus returns an Error when resp is not a 2xx response. The body is
// read (bounded) into the error; callers still close it.
func CheckStatus(service, op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{
		Service:    service,
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// Decode wraps a response decoding failure. A body that cannot be decoded is
// treated as an upstream failure, not a local one.
func Decode(service, op string, err error) error {
	return &Error{Service: service, Op: op, Err: fmt.Errorf("decode response: %w", err)}
}
