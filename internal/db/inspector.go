package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultSkipTypes lists the column type families excluded from forecasting.
// Matching is a case-sensitive substring check against the declared type, so
// "Nullable(String)" and "Array(Int64)" are both excluded.
var DefaultSkipTypes = []string{"String", "Text", "Enum", "Boolean", "Blob", "Binary", "Array", "JSON", "UUID"}

// Inspector reads table and column metadata from the ClickHouse catalog.
type Inspector struct {
	client    *Client
	skipTypes []string
	logger    *zap.Logger
}

// NewInspector creates a catalog inspector. An empty skipTypes selects
// DefaultSkipTypes; a nil logger is replaced with a no-op logger.
func NewInspector(client *Client, skipTypes []string, logger *zap.Logger) *Inspector {
	if len(skipTypes) == 0 {
		skipTypes = DefaultSkipTypes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{
		client:    client,
		skipTypes: skipTypes,
		logger:    logger,
	}
}

// ListTables returns the names of every table in the target database.
func (i *Inspector) ListTables(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SHOW TABLES FROM %s", i.client.database)

	rows, err := i.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// DescribeTable returns the forecastable columns of a table: the date column
// is always excluded, as is any column whose declared type matches a skip
// entry. Every excluded column is logged.
func (i *Inspector) DescribeTable(ctx context.Context, tableName string) ([]Column, error) {
	query := fmt.Sprintf("DESCRIBE TABLE %s.%s", i.client.database, tableName)

	rows, err := i.client.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var columns []Column
	for rows.Next() {
		var name, typ string
		dest := make([]any, len(fields))
		dest[0] = &name
		dest[1] = &typ
		// Remaining catalog fields (defaults, comment, codec, TTL) are discarded.
		for j := 2; j < len(dest); j++ {
			dest[j] = new(sql.RawBytes)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		if name == "date" {
			continue
		}
		if skip := i.matchSkipType(typ); skip != "" {
			i.logger.Info("skipping column with excluded type",
				zap.String("table", tableName),
				zap.String("column", name),
				zap.String("type", typ))
			continue
		}

		columns = append(columns, Column{Name: name, Type: typ})
	}

	return columns, rows.Err()
}

// matchSkipType returns the first skip entry contained in the type string,
// or "" when the type is forecastable.
func (i *Inspector) matchSkipType(typ string) string {
	for _, skip := range i.skipTypes {
		if strings.Contains(typ, skip) {
			return skip
		}
	}
	return ""
}
