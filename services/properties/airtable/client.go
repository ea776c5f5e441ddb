package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aircasa/aircasa-api/config"
)

// Record is one raw Airtable record as returned by the REST API.
type Record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// RecordPage is a single page of select results. Offset is non-empty
// when more pages remain.
type RecordPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// SelectQuery describes one page request against a table.
type SelectQuery struct {
	Table           string
	View            string
	FilterByFormula string
	Fields          []string
	PageSize        int
	Offset          string
}

// TableClient is the minimal capability the provider needs from the
// Airtable API.
type TableClient interface {
	SelectPage(ctx context.Context, q SelectQuery) (*RecordPage, error)
}

// UpstreamError carries the Airtable HTTP status for error mapping.
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("airtable: status %d: %s", e.StatusCode, e.Message)
}

// upstreamErrorBody is the error envelope Airtable returns on failures
type upstreamErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// RESTClient talks to the Airtable REST API
type RESTClient struct {
	baseURL    string
	baseID     string
	apiKey     string
	httpClient *http.Client
}

// NewRESTClient creates a client for the configured base
func NewRESTClient(cfg config.AirtableConfig) *RESTClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &RESTClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		baseID:  cfg.BaseID,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SelectPage fetches one page of records from a table
func (c *RESTClient) SelectPage(ctx context.Context, q SelectQuery) (*RecordPage, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(q.Table))

	params := url.Values{}
	if q.View != "" {
		params.Set("view", q.View)
	}
	if q.FilterByFormula != "" {
		params.Set("filterByFormula", q.FilterByFormula)
	}
	for _, field := range q.Fields {
		params.Add("fields[]", field)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Offset != "" {
		params.Set("offset", q.Offset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message := resp.Status
		var body upstreamErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
			message = body.Error.Message
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}

	var page RecordPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode airtable response: %w", err)
	}

	return &page, nil
}
