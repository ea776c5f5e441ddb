// Package repositories defines the data-access contracts consumed by the
// service layer. Implementations live in driver-specific subpackages.
package repositories

import (
	"context"

	"github.com/aircasa/aircasa-api/models"
)

// RowQuery describes a bounded, optionally owner-scoped table read.
// When OwnerColumn is empty no owner scoping is applied.
type RowQuery struct {
	Table       string
	OwnerColumn string
	OwnerValue  string
	Limit       int
}

// PropertyRowRepository is the minimal capability the relational
// property provider needs from the record store.
type PropertyRowRepository interface {
	// SelectRows returns raw rows from the table, capped at q.Limit.
	SelectRows(ctx context.Context, q RowQuery) ([]models.PropertyRecord, error)
}
