package logger

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID between the browser, the admin
// screen and the Users API.
const RequestIDHeader = "X-Request-ID"

// SessionIDHeader carries the admin session ID to the Users API so its logs
// can be joined with the screen's.
const SessionIDHeader = "X-Session-ID"

// NewRequestID generates a new request ID
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a copy of ctx carrying requestID
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithSessionID returns a copy of ctx carrying sessionID
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}
