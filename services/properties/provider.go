// Package properties defines the provider-agnostic contract for listing
// caller-scoped property records, the error taxonomy shared by all
// provider variants, and the router that selects the active variant.
package properties

import (
	"context"

	"github.com/aircasa/aircasa-api/models"
	"github.com/aircasa/aircasa-api/supabase"
)

// ListOptions carries the per-request diagnostic overrides parsed from
// query parameters. Constructed per request, never persisted.
type ListOptions struct {
	// Debug requests diagnostic metadata alongside the items.
	Debug bool

	// ViewOverride selects a non-default upstream view when supported.
	ViewOverride string

	// BypassOwnerFilter disables owner scoping entirely. Honored only
	// when diagnostic overrides are enabled in configuration; every use
	// is audit-logged.
	BypassOwnerFilter bool

	// OwnerOverride substitutes the owner value used for scoping.
	// Gated the same way as BypassOwnerFilter.
	OwnerOverride string
}

// Result is the outcome of a provider listing. Meta is populated only
// when the request asked for debug diagnostics.
type Result struct {
	Items []models.PropertyRecord
	Meta  map[string]interface{}
}

// Provider lists property records scoped to a caller identity. Variants
// are interchangeable behind this interface and selected once at startup.
type Provider interface {
	// Name returns the provider name (e.g. "airtable", "postgres")
	Name() string

	// List returns the caller-scoped records. Unless
	// ListOptions.BypassOwnerFilter was honored, every returned record
	// has passed the provider's owner-scoping filter.
	List(ctx context.Context, identity *supabase.Identity, opts ListOptions) (*Result, error)
}
