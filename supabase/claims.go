package supabase

import (
	"github.com/golang-jwt/jwt/v5"
)

// DefaultRole is projected into the Identity when the token carries no
// role claim. Supabase issues "authenticated" for signed-in users, so the
// default keeps older tokens working.
const DefaultRole = "authenticated"

// Claims represents the claims carried by a Supabase access token
// (legacy HS256 JWT secret format).
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Identity is the canonical caller identity projected from a verified
// token. It lives for one request; only the Validator constructs it.
type Identity struct {
	Subject  string
	Email    string
	Role     string
	Audience string
	Issuer   string
}

// Identity projects the trusted subset of claims into an Identity value.
// Claims outside this projection are never forwarded downstream.
func (c *Claims) Identity() *Identity {
	role := c.Role
	if role == "" {
		role = DefaultRole
	}

	audience := ""
	if len(c.Audience) > 0 {
		audience = c.Audience[0]
	}

	return &Identity{
		Subject:  c.Subject,
		Email:    c.Email,
		Role:     role,
		Audience: audience,
		Issuer:   c.Issuer,
	}
}
