package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/aircasa/aircasa-api/utils"
	"go.uber.org/zap"
)

// serviceName identifies this API in health responses
const serviceName = "aircasa-api"

// HealthResponse is the body for GET /healthz
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	TS      int64  `json:"ts"`
}

// ReadinessResponse is the body for GET /readyz
type ReadinessResponse struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// active provider has no relational store.
func NewHealthHandler(db *sql.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz.
// Liveness only; always returns 200 while the process is running.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
		OK:      true,
		Service: serviceName,
		TS:      time.Now().UnixMilli(),
	})
}

// HandleReadiness handles GET /readyz.
// Verifies the relational store when one is configured.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	ready := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("database readiness check failed", zap.Error(err))
			checks["database"] = "unhealthy"
			ready = false
		} else {
			checks["database"] = "healthy"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	_ = utils.WriteJSON(w, status, ReadinessResponse{
		OK:     ready,
		Checks: checks,
	})
}
