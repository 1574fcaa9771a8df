// Package runner drives the per-table forecast loop: schema discovery,
// forecast table reconciliation, per-column model fitting and the final
// bulk insert.
package runner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"chforecast/internal/db"
	"chforecast/internal/forecast"
)

// Config holds the per-run parameters.
type Config struct {
	// Interval is the forecast horizon in days beyond the last observed date.
	Interval int
	// OnlyFuture drops predictions for dates not strictly after the last
	// observed date.
	OnlyFuture bool
	// Tables restricts the run to an explicit set of table names. When empty,
	// every table in the database is considered. Names are used verbatim;
	// a nonexistent table fails when first queried.
	Tables []string
	// SkipTypes overrides the default excluded column type substrings.
	SkipTypes []string
}

// Result accumulates per-table outcomes for one run. A table can appear in
// both Successful and Failed when only some of its columns forecast cleanly.
type Result struct {
	Successful []string
	New        []string
	Updated    []string
	Failed     []string
	Skipped    []string
	Elapsed    time.Duration
}

// Runner processes candidate tables one at a time over a single shared
// connection. Column-level forecast errors are isolated; any other per-table
// error aborts the whole run.
type Runner struct {
	client     *db.Client
	inspector  *db.Inspector
	tables     *db.ForecastTables
	forecaster forecast.Forecaster
	cfg        Config
	logger     *zap.Logger
}

// New creates a runner. A nil logger is replaced with a no-op logger.
func New(client *db.Client, forecaster forecast.Forecaster, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		client:     client,
		inspector:  db.NewInspector(client, cfg.SkipTypes, logger),
		tables:     db.NewForecastTables(client, logger),
		forecaster: forecaster,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run processes every candidate table and reports the outcome counters.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{}

	tables := r.cfg.Tables
	if len(tables) == 0 {
		var err error
		tables, err = r.inspector.ListTables(ctx)
		if err != nil {
			return nil, err
		}
	}

	for _, table := range tables {
		// Never forecast a forecast table, even when explicitly listed.
		if strings.HasPrefix(table, db.ForecastPrefix) {
			res.Skipped = append(res.Skipped, table)
			continue
		}

		r.logger.Info("processing table",
			zap.String("database", r.client.Database()),
			zap.String("table", table))
		if err := r.processTable(ctx, table, res); err != nil {
			return nil, fmt.Errorf("failed to process table %s: %w", table, err)
		}
	}

	res.Elapsed = time.Since(start)
	r.summarize(res)
	return res, nil
}

func (r *Runner) processTable(ctx context.Context, table string, res *Result) error {
	columns, err := r.inspector.DescribeTable(ctx, table)
	if err != nil {
		return err
	}

	created, err := r.tables.Ensure(ctx, table, columns)
	if err != nil {
		return err
	}
	if created {
		res.New = append(res.New, table)
	} else {
		res.Updated = append(res.Updated, table)
	}

	series, err := r.client.ReadSeries(ctx, table, columns)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		r.logger.Warn("no data in source table", zap.String("table", table))
		res.Failed = append(res.Failed, table)
		return nil
	}

	var forecasts []forecast.ColumnForecast
	for idx, col := range columns {
		points, err := r.forecaster.Forecast(ctx, columnSeries(series, idx), r.cfg.Interval, r.cfg.OnlyFuture)
		if err != nil {
			res.Failed = append(res.Failed, table)
			r.logger.Error("column forecast failed",
				zap.String("table", table),
				zap.String("column", col.Name),
				zap.Error(err))
			continue
		}
		forecasts = append(forecasts, forecast.ColumnForecast{Column: col.Name, Points: points})
	}

	if rows := forecast.Merge(forecasts); len(rows) > 0 {
		if err := r.tables.InsertRows(ctx, table, columns, rows); err != nil {
			return err
		}
	}

	// Success is recorded whenever the forecast stage was reached, even if
	// every column failed. Kept for parity with historical runs.
	res.Successful = append(res.Successful, table)
	return nil
}

// columnSeries extracts one column's observations. Missing values become NaN
// and are left to the model to discard.
func columnSeries(series []db.SeriesRow, idx int) []forecast.Observation {
	obs := make([]forecast.Observation, 0, len(series))
	for _, row := range series {
		v := math.NaN()
		if row.Values[idx].Valid {
			v = row.Values[idx].Float64
		}
		obs = append(obs, forecast.Observation{Date: row.Date, Value: v})
	}
	return obs
}

func (r *Runner) summarize(res *Result) {
	r.logger.Info("forecast run finished",
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("successful", len(res.Successful)+len(res.Skipped)),
		zap.Int("new", len(res.New)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("skipped", len(res.Skipped)-len(res.Failed)),
		zap.Int("failed", len(res.Failed)))
}
