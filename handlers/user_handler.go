package handlers

import (
	"net/http"

	"github.com/aircasa/aircasa-api/middleware"
	"github.com/aircasa/aircasa-api/utils"
	"go.uber.org/zap"
)

// UserInfo is the caller-facing projection of a verified identity
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MeResponse is the body for GET /me
type MeResponse struct {
	OK   bool     `json:"ok"`
	User UserInfo `json:"user"`
}

// SecureResponse is the body for GET /secure. It carries the token's
// issuer and audience on top of the user projection, useful when
// checking which Supabase project issued a token.
type SecureResponse struct {
	OK   bool     `json:"ok"`
	User UserInfo `json:"user"`
	Iss  string   `json:"iss"`
	Aud  string   `json:"aud"`
}

// UserHandler serves the authenticated identity probes
type UserHandler struct {
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// HandleMe handles GET /me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, MeResponse{
		OK: true,
		User: UserInfo{
			ID:    identity.Subject,
			Email: identity.Email,
			Role:  identity.Role,
		},
	})
}

// HandleSecure handles GET /secure
func (h *UserHandler) HandleSecure(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, SecureResponse{
		OK: true,
		User: UserInfo{
			ID:    identity.Subject,
			Email: identity.Email,
			Role:  identity.Role,
		},
		Iss: identity.Issuer,
		Aud: identity.Audience,
	})
}
