// Package supabase verifies bearer tokens issued by Supabase Auth.
//
// Verification is purely local: the token signature is checked against
// the project's shared JWT secret with a restricted algorithm allowlist.
// No network round trip is involved.
package supabase

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	// ErrMissingToken is returned when no bearer token is present
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken is returned for any verification failure: bad
	// signature, expired or not-yet-valid token, or a disallowed
	// signing algorithm. The specific reason is logged, never returned,
	// so callers cannot use the error as an oracle.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret is returned when no verification secret is
	// configured. This is an operator error, not a caller error.
	ErrMissingSecret = errors.New("server missing SUPABASE_JWT_SECRET")
)

const bearerPrefix = "Bearer "

// Config holds configuration for the Validator
type Config struct {
	// JWTSecret is the Supabase legacy JWT secret (HS256)
	JWTSecret string

	// Algorithms is the signing algorithm allowlist. Defaults to HS256
	// only; tokens signed with any other algorithm are rejected to
	// prevent algorithm-confusion attacks.
	Algorithms []string
}

// Validator validates Supabase JWT tokens against the shared secret
type Validator struct {
	secret     []byte
	algorithms []string
	logger     *zap.Logger
}

// NewValidator creates a new Supabase JWT validator
func NewValidator(cfg Config, logger *zap.Logger) *Validator {
	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = []string{"HS256"}
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}

	return &Validator{
		secret:     secret,
		algorithms: algorithms,
		logger:     logger,
	}
}

// ExtractBearerToken returns the token portion of an Authorization header
// value, or "" when the header does not match the "Bearer <token>" shape.
func ExtractBearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// ValidateToken verifies a raw token string and returns the projected
// Identity. Signature, expiry, and not-before are all enforced by the
// parser; the algorithm allowlist is enforced before the key is handed
// out.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*Identity, error) {
	if len(v.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithValidMethods(v.algorithms))

	if err != nil {
		v.logger.Debug("token verification failed", zap.Error(err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims.Identity(), nil
}

// VerifyHeader validates a raw Authorization header value. A header that
// does not carry a bearer token fails with ErrMissingToken.
func (v *Validator) VerifyHeader(ctx context.Context, header string) (*Identity, error) {
	token := ExtractBearerToken(header)
	if token == "" {
		return nil, ErrMissingToken
	}
	return v.ValidateToken(ctx, token)
}
