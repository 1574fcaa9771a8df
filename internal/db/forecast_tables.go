package db

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"chforecast/internal/forecast"
)

// ForecastPrefix marks generated forecast tables. Tables carrying it are
// never themselves forecasted.
const ForecastPrefix = "bucket_forecast_"

// ForecastTableName derives the companion table name for a source table.
// A leading "bucket_" is stripped once so the prefix is never doubled:
// bucket_sales -> bucket_forecast_sales, orders -> bucket_forecast_orders.
func ForecastTableName(tableName string) string {
	stem := strings.TrimPrefix(strings.TrimSpace(tableName), "bucket_")
	return ForecastPrefix + stem
}

// ForecastTables creates and populates the companion forecast tables.
type ForecastTables struct {
	client *Client
	logger *zap.Logger
}

// NewForecastTables creates the forecast table manager. A nil logger is
// replaced with a no-op logger.
func NewForecastTables(client *Client, logger *zap.Logger) *ForecastTables {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastTables{client: client, logger: logger}
}

// Ensure drops any existing forecast table for the source and recreates it
// with three output columns (value, _min, _max) per retained source column,
// ordered by date. It reports whether the table is brand new; false means a
// previous forecast table was dropped and recreated. Drop and create are two
// separate statements, so an interrupted run can leave the table absent
// until the next run.
func (f *ForecastTables) Ensure(ctx context.Context, source string, columns []Column) (bool, error) {
	name := ForecastTableName(source)
	qualified := f.client.database + "." + name

	var exists uint8
	query := fmt.Sprintf("EXISTS TABLE %s", qualified)
	if err := f.client.db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check forecast table %s: %w", name, err)
	}

	if exists == 1 {
		f.logger.Info("dropping existing forecast table", zap.String("table", name))
		if _, err := f.client.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", qualified)); err != nil {
			return false, fmt.Errorf("failed to drop forecast table %s: %w", name, err)
		}
	}

	var defs strings.Builder
	for _, col := range columns {
		fmt.Fprintf(&defs, ", %s %s, %s_min %s, %s_max %s",
			col.Name, col.Type, col.Name, col.Type, col.Name, col.Type)
	}
	create := fmt.Sprintf("CREATE TABLE %s (date Date%s) ENGINE = MergeTree() ORDER BY date",
		qualified, defs.String())
	if _, err := f.client.db.ExecContext(ctx, create); err != nil {
		return false, fmt.Errorf("failed to create forecast table %s: %w", name, err)
	}

	if exists == 1 {
		f.logger.Info("forecast table recreated", zap.String("table", name))
		return false, nil
	}
	f.logger.Info("forecast table created", zap.String("table", name))
	return true, nil
}

// InsertRows writes the merged forecast rows in a single multi-row
// parameterized statement. Column order is date, every estimate, every _min,
// then every _max. Cells missing because a column's forecast failed are
// bound as NULL. An empty row set issues no statement.
func (f *ForecastTables) InsertRows(ctx context.Context, source string, columns []Column, rows []forecast.Row) error {
	if len(rows) == 0 {
		return nil
	}

	name := ForecastTableName(source)
	insertCols := make([]string, 0, 1+3*len(columns))
	insertCols = append(insertCols, "date")
	for _, col := range columns {
		insertCols = append(insertCols, col.Name)
	}
	for _, col := range columns {
		insertCols = append(insertCols, col.Name+"_min")
	}
	for _, col := range columns {
		insertCols = append(insertCols, col.Name+"_max")
	}

	placeholder := "(?" + strings.Repeat(", ?", len(insertCols)-1) + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s.%s (%s) VALUES ",
		f.client.database, name, strings.Join(insertCols, ", "))

	args := make([]any, 0, len(rows)*len(insertCols))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(placeholder)

		args = append(args, row.Date)
		for _, col := range columns {
			if cell, ok := row.Cells[col.Name]; ok {
				args = append(args, cell.Estimate)
			} else {
				args = append(args, nil)
			}
		}
		for _, col := range columns {
			if cell, ok := row.Cells[col.Name]; ok {
				args = append(args, cell.Lower)
			} else {
				args = append(args, nil)
			}
		}
		for _, col := range columns {
			if cell, ok := row.Cells[col.Name]; ok {
				args = append(args, cell.Upper)
			} else {
				args = append(args, nil)
			}
		}
	}

	if _, err := f.client.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert forecast rows into %s: %w", name, err)
	}

	f.logger.Info("forecast rows inserted",
		zap.String("table", name),
		zap.Int("rows", len(rows)))
	return nil
}
