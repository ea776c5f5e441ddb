package middleware

import (
	"context"

	"github.com/aircasa/aircasa-api/supabase"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// IdentityKey is the context key for the verified caller identity
	IdentityKey contextKey = "identity"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetIdentityFromContext retrieves the verified identity from context.
// Returns nil when the request never passed the auth middleware.
func GetIdentityFromContext(ctx context.Context) *supabase.Identity {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(*supabase.Identity); ok {
			return identity
		}
	}
	return nil
}

// WithIdentity adds a verified identity to the context
func WithIdentity(ctx context.Context, identity *supabase.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
