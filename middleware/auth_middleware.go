package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/aircasa/aircasa-api/supabase"
	"github.com/aircasa/aircasa-api/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for verifying bearer tokens
type TokenValidator interface {
	// VerifyHeader extracts the bearer token from an Authorization
	// header value and validates it
	VerifyHeader(ctx context.Context, header string) (*supabase.Identity, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token on the
// Authorization header. Tokens are never read from cookies or query
// parameters. The verified identity is added to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		identity, err := m.validator.VerifyHeader(ctx, r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, supabase.ErrMissingToken):
				m.logger.Warn("missing bearer token",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path))
				_ = utils.WriteUnauthorized(w, "Missing token")
			case errors.Is(err, supabase.ErrMissingSecret):
				m.logger.Error("jwt secret is not configured",
					zap.String("request_id", requestID))
				_ = utils.WriteInternalServerError(w, "Server misconfigured")
			default:
				m.logger.Warn("token validation failed",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid token")
			}
			return
		}

		ctx = WithIdentity(ctx, identity)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", identity.Subject),
			zap.String("email", identity.Email))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
