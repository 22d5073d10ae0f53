// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wxyc/wxyc-discogs/internal/upstream"
)

// Op represents an operation that can fail.
type Op string

const (
	// Search
	OpSearch     Op = "search Discogs"
	OpPageNext   Op = "load next page"
	OpPagePrev   Op = "load previous page"
	OpPageJump   Op = "jump to page"
	OpLibraryTab Op = "load library discography"

	// Session
	OpLogin Op = "log in"

	// Startup
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "run application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, Describe(err))
}

// FormatWith creates an error message naming what the operation was about.
func FormatWith(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	if subject == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, subject, Describe(err))
}

// Describe summarizes err for the status line. Upstream failures are reduced
// to the service and what went wrong; other errors print as is.
func Describe(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}

	var ue *upstream.Error
	if !errors.As(err, &ue) {
		return err.Error()
	}
	switch code := ue.StatusCode; {
	case code == 0 && ue.Err != nil:
		return fmt.Sprintf("%s unreachable: %v", ue.Service, ue.Err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Sprintf("%s rejected the request (status %d)", ue.Service, code)
	case code == http.StatusTooManyRequests:
		return fmt.Sprintf("%s rate limit reached (status %d)", ue.Service, code)
	case code >= 500:
		return fmt.Sprintf("%s is unavailable (status %d)", ue.Service, code)
	}
	return ue.Error()
}
