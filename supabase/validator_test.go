package supabase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "super-secret-signing-key"

// Test helper to sign a token with arbitrary method and secret
func signTestToken(t *testing.T, method jwt.SigningMethod, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://project.supabase.co/auth/v1",
			Subject:   "u1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: "a@x.com",
		Role:  "authenticated",
	}
}

func newTestValidator(secret string) *Validator {
	return NewValidator(Config{JWTSecret: secret}, zap.NewNop())
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token returns projected identity", func(t *testing.T) {
		v := newTestValidator(testSecret)
		token := signTestToken(t, jwt.SigningMethodHS256, testSecret, validClaims())

		identity, err := v.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", identity.Subject)
		assert.Equal(t, "a@x.com", identity.Email)
		assert.Equal(t, "authenticated", identity.Role)
		assert.Equal(t, "authenticated", identity.Audience)
		assert.Equal(t, "https://project.supabase.co/auth/v1", identity.Issuer)
	})

	t.Run("missing role claim defaults to authenticated", func(t *testing.T) {
		v := newTestValidator(testSecret)
		claims := validClaims()
		claims.Role = ""
		token := signTestToken(t, jwt.SigningMethodHS256, testSecret, claims)

		identity, err := v.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, DefaultRole, identity.Role)
	})

	t.Run("wrong secret fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)
		token := signTestToken(t, jwt.SigningMethodHS256, "some-other-secret", validClaims())

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-1 * time.Minute))
		token := signTestToken(t, jwt.SigningMethodHS256, testSecret, claims)

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("not yet valid token fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)
		claims := validClaims()
		claims.NotBefore = jwt.NewNumericDate(time.Now().Add(1 * time.Hour))
		token := signTestToken(t, jwt.SigningMethodHS256, testSecret, claims)

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("disallowed algorithm fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)
		token := signTestToken(t, jwt.SigningMethodHS512, testSecret, validClaims())

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)
		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token fails with ErrInvalidToken", func(t *testing.T) {
		v := newTestValidator(testSecret)

		_, err := v.ValidateToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing secret fails with ErrMissingSecret", func(t *testing.T) {
		v := newTestValidator("")
		token := signTestToken(t, jwt.SigningMethodHS256, testSecret, validClaims())

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("expanded allowlist accepts HS512", func(t *testing.T) {
		v := NewValidator(Config{
			JWTSecret:  testSecret,
			Algorithms: []string{"HS256", "HS512"},
		}, zap.NewNop())
		token := signTestToken(t, jwt.SigningMethodHS512, testSecret, validClaims())

		identity, err := v.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", identity.Subject)
	})
}

func TestVerifyHeader(t *testing.T) {
	ctx := context.Background()
	v := newTestValidator(testSecret)
	token := signTestToken(t, jwt.SigningMethodHS256, testSecret, validClaims())

	t.Run("bearer header verifies", func(t *testing.T) {
		identity, err := v.VerifyHeader(ctx, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, "u1", identity.Subject)
	})

	t.Run("empty header fails with ErrMissingToken", func(t *testing.T) {
		_, err := v.VerifyHeader(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("non-bearer scheme fails with ErrMissingToken", func(t *testing.T) {
		_, err := v.VerifyHeader(ctx, "Basic dXNlcjpwYXNz")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("lowercase bearer fails with ErrMissingToken", func(t *testing.T) {
		_, err := v.VerifyHeader(ctx, "bearer "+token)
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearerToken("Bearer abc"))
	assert.Equal(t, "", ExtractBearerToken("Bearer"))
	assert.Equal(t, "", ExtractBearerToken(""))
	assert.Equal(t, "", ExtractBearerToken("Token abc"))
}
