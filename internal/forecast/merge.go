package forecast

import (
	"sort"
	"time"
)

// ColumnForecast pairs a column name with its predicted points.
type ColumnForecast struct {
	Column string
	Points []Point
}

// Cell is one column's contribution to a forecast row.
type Cell struct {
	Estimate float64
	Lower    float64
	Upper    float64
}

// Row is the reshaped, row-per-date form written to the forecast table.
// A column that produced no point for the date has no entry in Cells.
type Row struct {
	Date  time.Time
	Cells map[string]Cell
}

// Merge transposes per-column forecasts into one row per distinct date.
// Columns contribute independently, so a column that failed upstream simply
// leaves its cells unset. Rows come back sorted by date.
func Merge(forecasts []ColumnForecast) []Row {
	byDate := make(map[time.Time]*Row)
	for _, cf := range forecasts {
		for _, p := range cf.Points {
			key := dateKey(p.Date)
			row, ok := byDate[key]
			if !ok {
				row = &Row{Date: key, Cells: make(map[string]Cell)}
				byDate[key] = row
			}
			row.Cells[cf.Column] = Cell{Estimate: p.Estimate, Lower: p.Lower, Upper: p.Upper}
		}
	}

	rows := make([]Row, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// dateKey normalizes a timestamp to its calendar date in UTC so points from
// different columns land in the same row regardless of clock noise.
func dateKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
