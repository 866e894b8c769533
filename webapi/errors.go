package webapi

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for client construction.
var (
	// ErrMissingToken is returned when a client is built without any token.
	ErrMissingToken = errors.New("webapi: token is required")

	// ErrMissingAppToken is returned when an app-level operation is invoked
	// on a client configured without an app-level token.
	ErrMissingAppToken = errors.New("webapi: app-level token is required")
)

// APIError is a platform-level failure: the HTTP exchange succeeded but the
// response envelope carried ok=false. Code is the platform's error string
// (e.g. "channel_not_found", "invalid_auth").
type APIError struct {
	Code      string           // Platform error code string
	Warning   string           // Optional warning accompanying the error
	Metadata  ResponseMetadata // Messages with further detail, if any
	RequestID string           // Platform request ID for support escalation
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("webapi: platform returned error %q (request id %s)", e.Code, e.RequestID)
	}
	return fmt.Sprintf("webapi: platform returned error %q", e.Code)
}

// HTTPError is a transport-level failure: the platform answered with a
// non-2xx status and no parseable response envelope.
type HTTPError struct {
	StatusCode int    // HTTP status code
	RequestID  string // Platform request ID, when present
	Body       []byte // Raw response body for diagnostics
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("webapi: unexpected HTTP status %d", e.StatusCode)
}

// RateLimitedError is returned when the platform rate-limited the call and
// the retry budget was exhausted. RetryAfter is the server-requested wait.
type RateLimitedError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("webapi: rate limited, retry after %s", e.RetryAfter)
}
