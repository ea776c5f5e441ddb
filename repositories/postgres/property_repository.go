package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aircasa/aircasa-api/models"
	"github.com/aircasa/aircasa-api/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PropertyRepository implements repositories.PropertyRowRepository over a
// Postgres table. Rows are returned raw: every column lands in the
// record's field map, no projection is applied.
type PropertyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPropertyRepository creates a new property row repository
func NewPropertyRepository(db *DB, logger *zap.Logger) repositories.PropertyRowRepository {
	return &PropertyRepository{
		db:     db,
		logger: logger,
	}
}

// SelectRows runs a bounded, optionally owner-scoped SELECT. Table and
// column names come from configuration, not callers, but are still quoted
// as identifiers so a bad config value cannot change the statement shape.
func (r *PropertyRepository) SelectRows(ctx context.Context, q repositories.RowQuery) ([]models.PropertyRecord, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(q.Table))

	var args []interface{}
	if q.OwnerColumn != "" && q.OwnerValue != "" {
		query += fmt.Sprintf(" WHERE %s = $1", pq.QuoteIdentifier(q.OwnerColumn))
		args = append(args, q.OwnerValue)
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	records := []models.PropertyRecord{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := models.PropertyRecord{
			Fields: make(map[string]interface{}, len(columns)),
		}
		for i, column := range columns {
			value := normalizeValue(values[i])
			record.Fields[column] = value
			if column == "id" && value != nil {
				record.ID = fmt.Sprintf("%v", value)
			}
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	r.logger.Debug("rows selected",
		zap.String("table", q.Table),
		zap.Int("count", len(records)))

	return records, nil
}

// normalizeValue converts driver types into JSON-friendly values.
// lib/pq hands back []byte for text columns read through interface{}.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
