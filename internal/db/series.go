package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ReadSeries loads the full observed history of the given columns, ordered
// by date. An empty result means the source table carries no data.
func (c *Client) ReadSeries(ctx context.Context, tableName string, columns []Column) ([]SeriesRow, error) {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	query := fmt.Sprintf("SELECT date, %s FROM %s.%s ORDER BY date",
		strings.Join(names, ", "), c.database, tableName)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read series from %s: %w", tableName, err)
	}
	defer rows.Close()

	var series []SeriesRow
	for rows.Next() {
		row := SeriesRow{Values: make([]sql.NullFloat64, len(columns))}
		dest := make([]any, 0, len(columns)+1)
		dest = append(dest, &row.Date)
		for i := range row.Values {
			dest = append(dest, &row.Values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		series = append(series, row)
	}

	return series, rows.Err()
}
