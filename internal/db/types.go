package db

import (
	"database/sql"
	"time"
)

// Column describes one table column as reported by the catalog.
// ClickHouse DESCRIBE returns seven fields per column (name, type, default
// kind, default expression, comment, codec, TTL); only the first two matter
// here.
type Column struct {
	Name string
	Type string
}

// SeriesRow holds the observed values of every retained numeric column on
// one date. Values is parallel to the column list the row was read with.
type SeriesRow struct {
	Date   time.Time
	Values []sql.NullFloat64
}
