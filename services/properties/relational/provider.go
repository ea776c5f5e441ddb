// Package relational implements the property provider backed by a
// Postgres table. Rows are returned as-is, with no field projection.
package relational

import (
	"context"
	"errors"

	"github.com/aircasa/aircasa-api/config"
	"github.com/aircasa/aircasa-api/repositories"
	"github.com/aircasa/aircasa-api/services/properties"
	"github.com/aircasa/aircasa-api/supabase"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const providerName = "postgres"

// rowLimit caps every listing query.
const rowLimit = 100

// Provider lists property rows from a configured relational table,
// scoped to the caller's subject when an owner column is configured.
type Provider struct {
	repo        repositories.PropertyRowRepository
	table       string
	ownerColumn string
	logger      *zap.Logger
}

// NewProvider creates the relational provider. A missing table name is
// detected here and reported as a configuration error on every List
// call, before any query runs.
func NewProvider(cfg config.PropertiesConfig, repo repositories.PropertyRowRepository, logger *zap.Logger) *Provider {
	return &Provider{
		repo:        repo,
		table:       cfg.Table,
		ownerColumn: cfg.OwnerField,
		logger:      logger,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// List returns rows from the configured table. When an owner column is
// configured the query filters on the caller's subject; without one the
// table is served unscoped, matching a single-tenant deployment.
func (p *Provider) List(ctx context.Context, identity *supabase.Identity, opts properties.ListOptions) (*properties.Result, error) {
	if p.table == "" {
		return nil, properties.NewDataError(properties.ErrorTypeMisconfigured,
			"Missing SUPABASE_TABLE_PROPERTIES", nil)
	}
	if p.repo == nil {
		return nil, properties.NewDataError(properties.ErrorTypeMisconfigured,
			"relational store is not configured", nil)
	}

	query := repositories.RowQuery{
		Table: p.table,
		Limit: rowLimit,
	}

	filter := "(unscoped)"
	if opts.BypassOwnerFilter {
		filter = "(bypassed)"
	} else if p.ownerColumn != "" {
		ownerValue := opts.OwnerOverride
		if ownerValue == "" && identity != nil {
			ownerValue = identity.Subject
		}
		if ownerValue != "" {
			query.OwnerColumn = p.ownerColumn
			query.OwnerValue = ownerValue
			filter = p.ownerColumn + " = " + ownerValue
		}
	}

	rows, err := p.repo.SelectRows(ctx, query)
	if err != nil {
		p.logger.Error("postgres property query failed",
			zap.String("table", p.table),
			zap.Error(err))
		return nil, p.mapStoreError(err)
	}

	result := &properties.Result{Items: rows}
	if opts.Debug {
		result.Meta = map[string]interface{}{
			"provider":     providerName,
			"table":        p.table,
			"ownerColumn":  p.ownerColumn,
			"filter":       filter,
			"limit":        rowLimit,
			"matchedCount": len(rows),
		}
	}
	return result, nil
}

// mapStoreError translates driver failures into the shared taxonomy.
// Postgres error classes 28 (authorization) and 53 (insufficient
// resources) get their own categories; everything else is a generic
// upstream failure carrying the driver's message.
func (p *Provider) mapStoreError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "28":
			return properties.NewDataError(properties.ErrorTypeUpstreamAuth,
				"Postgres rejected the credentials", err)
		case "53":
			return properties.NewDataError(properties.ErrorTypeRateLimited,
				"Postgres is out of capacity, retry later", err)
		}
		message := pqErr.Message
		if message == "" {
			message = "Postgres query failed"
		}
		return properties.NewDataError(properties.ErrorTypeUpstreamFailure, message, err)
	}
	return properties.NewDataError(properties.ErrorTypeUpstreamFailure,
		"Postgres query failed", err)
}
