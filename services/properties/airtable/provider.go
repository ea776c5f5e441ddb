// Package airtable implements the external-table property provider. It
// reads a named view of the Properties table and filters it to the
// caller's email, with a fixed field allowlist keeping the payload small
// and predictable.
package airtable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aircasa/aircasa-api/config"
	"github.com/aircasa/aircasa-api/models"
	"github.com/aircasa/aircasa-api/services/properties"
	"github.com/aircasa/aircasa-api/supabase"
	"go.uber.org/zap"
)

// pageSize is the fixed upstream page size; all pages are concatenated
// before returning.
const pageSize = 100

// ownerEmailField is the owner column matched against the caller email.
const ownerEmailField = "app_email"

// listFields is the fixed projection allowlist. Columns outside this
// list never reach callers, whatever the upstream table carries.
var listFields = []string{
	"property_id",
	"app_street",
	"app_city",
	"app_state",
	"app_zip_code",

	// status checkboxes
	"property_intake_completed",
	"photos_completed",
	"home_criteria_main_completed",
	"personal_financial_completed",
	"consultation_completed",

	// sort/display companion
	"attom_id",

	// extras
	"app_image_url",
	"app_estimated_value",
	"app_property_type",
	"app_bedrooms",
	"app_bathrooms",
	"is_buying_a_home",
}

// Provider lists properties from an Airtable base
type Provider struct {
	client     TableClient
	table      string
	view       string
	configured bool
	logger     *zap.Logger
}

// NewProvider creates the Airtable provider. Missing credentials are
// detected here and reported as Misconfigured on every List call, before
// any network traffic.
func NewProvider(cfg config.AirtableConfig, client TableClient, logger *zap.Logger) *Provider {
	return &Provider{
		client:     client,
		table:      cfg.Table,
		view:       cfg.View,
		configured: cfg.APIKey != "" && cfg.BaseID != "",
		logger:     logger,
	}
}

// Name returns the provider name
func (p *Provider) Name() string { return "airtable" }

// List fetches all pages of the view, filtered to the owner email unless
// the bypass option was honored upstream.
func (p *Provider) List(ctx context.Context, identity *supabase.Identity, opts properties.ListOptions) (*properties.Result, error) {
	if !p.configured {
		return nil, properties.NewDataError(properties.ErrorTypeMisconfigured,
			"Missing Airtable settings (AIRTABLE_API_KEY, AIRTABLE_BASE_ID)", nil)
	}

	view := p.view
	if opts.ViewOverride != "" {
		view = opts.ViewOverride
	}

	formula := ""
	ownerEmail := ""
	if !opts.BypassOwnerFilter {
		ownerEmail = opts.OwnerOverride
		if ownerEmail == "" && identity != nil {
			ownerEmail = identity.Email
		}
		if ownerEmail == "" {
			return nil, properties.ErrMissingOwnerEmail
		}
		formula = ownerFormula(ownerEmail)
	}

	// Airtable only returns requested columns, so the owner column must
	// be asked for whenever the re-check needs it. projectFields keeps it
	// out of the response either way.
	fields := listFields
	if ownerEmail != "" {
		fields = append(append(make([]string, 0, len(listFields)+1), listFields...), ownerEmailField)
	}

	items := []models.PropertyRecord{}
	pages := 0
	offset := ""
	for {
		page, err := p.client.SelectPage(ctx, SelectQuery{
			Table:           p.table,
			View:            view,
			FilterByFormula: formula,
			Fields:          fields,
			PageSize:        pageSize,
			Offset:          offset,
		})
		if err != nil {
			return nil, p.mapUpstreamError(err)
		}
		pages++

		for _, rec := range page.Records {
			// The view already restricts results, but a misconfigured
			// view must not leak another owner's records.
			if ownerEmail != "" && !ownerMatches(rec, ownerEmail) {
				p.logger.Warn("dropping record that failed the owner re-check",
					zap.String("record_id", rec.ID))
				continue
			}
			items = append(items, models.PropertyRecord{
				ID:     rec.ID,
				Fields: projectFields(rec.Fields),
			})
		}

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	result := &properties.Result{Items: items}
	if opts.Debug {
		metaFormula := formula
		if opts.BypassOwnerFilter {
			metaFormula = "(bypassed)"
		}
		result.Meta = map[string]interface{}{
			"provider":        "airtable",
			"table":           p.table,
			"view":            view,
			"filterByFormula": metaFormula,
			"pageCount":       pages,
			"matchedCount":    len(items),
		}
	}

	return result, nil
}

// ownerFormula builds the case-insensitive owner filter. Single quotes
// are escaped so an email cannot break out of the formula literal.
func ownerFormula(email string) string {
	escaped := strings.ReplaceAll(strings.ToLower(email), "'", `\'`)
	return fmt.Sprintf("LOWER({%s}) = '%s'", ownerEmailField, escaped)
}

// ownerMatches re-checks a returned record against the owner email
func ownerMatches(rec Record, email string) bool {
	value, ok := rec.Fields[ownerEmailField].(string)
	return ok && strings.EqualFold(value, email)
}

// projectFields keeps only the allowlisted columns
func projectFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(listFields))
	for _, field := range listFields {
		if value, ok := fields[field]; ok {
			out[field] = value
		}
	}
	return out
}

// mapUpstreamError translates Airtable failures into the data-error
// taxonomy with friendlier summaries for the common cases.
func (p *Provider) mapUpstreamError(err error) error {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		switch {
		case ue.StatusCode == http.StatusUnauthorized || ue.StatusCode == http.StatusForbidden:
			return properties.NewDataError(properties.ErrorTypeUpstreamAuth,
				"Airtable auth failed (check AIRTABLE_API_KEY permissions and base access)", err)
		case ue.StatusCode == http.StatusTooManyRequests:
			return properties.NewDataError(properties.ErrorTypeRateLimited,
				"Airtable rate limit hit (429). Try again shortly or reduce page size.", err)
		}
		if ue.Message != "" {
			return properties.NewDataError(properties.ErrorTypeUpstreamFailure, ue.Message, err)
		}
	}
	// Transport-level failures carry no safe upstream summary
	return properties.NewDataError(properties.ErrorTypeUpstreamFailure,
		"Airtable query failed", err)
}
