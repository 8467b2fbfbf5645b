package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	accountIDKey   contextKey = "accountID"
	displayNameKey contextKey = "displayName"
	requestIDKey   contextKey = "requestID"
)

// AccountIDFrom retrieves the authenticated account id, or "" for anonymous callers.
func AccountIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(accountIDKey).(string); ok {
		return v
	}
	return ""
}

// DisplayNameFrom retrieves the authenticated display name, or "".
func DisplayNameFrom(r *http.Request) string {
	if v, ok := r.Context().Value(displayNameKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithIdentity returns a new context with the caller's account id and display name.
func ContextWithIdentity(ctx context.Context, accountID, displayName string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	return context.WithValue(ctx, displayNameKey, displayName)
}

// RequestIDFrom retrieves the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
