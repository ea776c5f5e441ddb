package handlers

import (
	"context"
	"net/http"

	"github.com/aircasa/aircasa-api/middleware"
	"github.com/aircasa/aircasa-api/models"
	"github.com/aircasa/aircasa-api/services/properties"
	"github.com/aircasa/aircasa-api/supabase"
	"github.com/aircasa/aircasa-api/utils"
	"go.uber.org/zap"
)

// PropertyLister lists property records for a verified identity
type PropertyLister interface {
	List(ctx context.Context, identity *supabase.Identity, opts properties.ListOptions) (*properties.Result, error)
}

// PropertiesResponse is the body for GET /properties. Meta is present
// only on debug requests.
type PropertiesResponse struct {
	Items []models.PropertyRecord `json:"items"`
	Meta  map[string]interface{}  `json:"meta,omitempty"`
}

// PropertiesHandler serves the property listing endpoint
type PropertiesHandler struct {
	lister PropertyLister
	logger *zap.Logger
}

// NewPropertiesHandler creates a new PropertiesHandler
func NewPropertiesHandler(lister PropertyLister, logger *zap.Logger) *PropertiesHandler {
	return &PropertiesHandler{
		lister: lister,
		logger: logger,
	}
}

// HandleList handles GET /properties. Query parameters debug, view,
// bypassEmail and email map onto the listing options; whether the
// override parameters take effect is decided by the provider router.
func (h *PropertiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	opts := properties.ListOptions{
		Debug:             isFlagSet(query.Get("debug")),
		ViewOverride:      query.Get("view"),
		BypassOwnerFilter: isFlagSet(query.Get("bypassEmail")),
		OwnerOverride:     query.Get("email"),
	}

	if opts.OwnerOverride != "" && !utils.IsValidEmail(opts.OwnerOverride) {
		_ = utils.WriteBadRequest(w, "Invalid email override")
		return
	}

	result, err := h.lister.List(r.Context(), identity, opts)
	if err != nil {
		HandleDataError(w, err, h.logger)
		return
	}

	items := result.Items
	if items == nil {
		items = []models.PropertyRecord{}
	}

	response := PropertiesResponse{Items: items}
	if opts.Debug {
		response.Meta = result.Meta
	}
	_ = utils.WriteJSON(w, http.StatusOK, response)
}

// isFlagSet reports whether a query flag value is truthy
func isFlagSet(value string) bool {
	return value == "1" || value == "true"
}
