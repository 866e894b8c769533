// Package trace propagates correlation identifiers between SDK calls and
// host-application logs. Outbound requests carry a client-generated request
// ID; the platform's own request identifier is echoed back on responses and
// surfaced by the webapi package.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// requestIDKey is the context key for client request ID values
	requestIDKey contextKey = "request_id"

	// HeaderXRequestID is the header carrying the client-generated request ID
	// on outbound calls.
	HeaderXRequestID = "X-Request-ID"
	// HeaderPlatformRequestID is the header the platform sets on every
	// response with its own request identifier.
	HeaderPlatformRequestID = "X-Slack-Req-Id"
)

// WithRequestID adds a client request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IDFromContext returns a request ID from context if present
func IDFromContext(ctx context.Context) (string, bool) {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID, true
	}
	return "", false
}

// EnsureRequestID returns an existing request ID from context or generates a new one
func EnsureRequestID(ctx context.Context) string {
	if requestID, ok := IDFromContext(ctx); ok {
		return requestID
	}
	return uuid.New().String()
}
