// Package api implements the VibeFlo Gateway Client: a single point
// through which all backend HTTP calls are issued, so authentication,
// endpoint routing, and transient-failure recovery are handled
// uniformly instead of at each call site.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrInvalidID is returned when a path-parameterized operation is given
// a non-numeric resource identifier. The request is never sent.
var ErrInvalidID = errors.New("invalid identifier")

// ErrSessionExpired is returned when the server rejects the bearer
// token. The client has already cleared its credentials by the time
// callers see this.
var ErrSessionExpired = errors.New("session expired")

// APIError is a structured HTTP error response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an HTTP 401 or a session
// expiry.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsTimeout reports whether err represents a client-side or
// server-reported timeout. Timeouts are the only retryable failure
// class.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 408 || apiErr.StatusCode == 504 {
			return true
		}
		return strings.Contains(strings.ToLower(apiErr.Message), "timeout")
	}

	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// RetryableError is the default retry predicate: timeouts are
// retryable, 401 and 404 never are, everything else is surfaced
// immediately.
func RetryableError(err error) bool {
	if IsUnauthorized(err) || IsNotFound(err) {
		return false
	}
	return IsTimeout(err)
}
