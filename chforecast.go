// Package chforecast generates per-column time-series forecasts for the
// tables of a ClickHouse database.
//
// For every processed source table the package (re)creates a companion
// bucket_forecast_<stem> table holding, per retained numeric column, the
// predicted value and its lower/upper confidence bounds, keyed by date.
// Forecast tables are dropped and recreated on every run that touches their
// source table.
//
// # Quick Start
//
//	result, err := chforecast.Run(context.Background(), chforecast.Options{
//		Database: "forecast_db",
//		Interval: 7,
//	})
//
// Connection settings come from the CLICKHOUSE_HOST, CLICKHOUSE_PORT,
// CLICKHOUSE_USERNAME and CLICKHOUSE_PASSWORD environment variables
// (defaults: localhost and 8123).
//
// # Failure semantics
//
// A column whose model fails to fit is logged and dropped while its sibling
// columns continue; the table lands in both the Successful and Failed sets of
// the Result. Errors outside the model boundary (catalog queries, DDL, the
// bulk insert) abort the whole run.
package chforecast

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chforecast/internal/config"
	"chforecast/internal/db"
	"chforecast/internal/forecast"
	"chforecast/internal/runner"
)

// Forecaster is the model boundary: implementations fit a series and predict
// a daily horizon. The default is the built-in seasonal-trend model; supply
// a custom implementation to swap the statistics without touching the
// orchestration.
type Forecaster = forecast.Forecaster

// Result carries the per-table outcome lists of one run.
type Result = runner.Result

// Options configures a forecast run.
//
// Database and Interval are required. Everything else has a usable default.
type Options struct {
	// Database is the ClickHouse database whose tables are processed.
	Database string

	// Interval is the forecast horizon in days beyond the last observed date.
	Interval int

	// Tables restricts the run to an explicit set of table names.
	// If empty, every table in the database is considered.
	// Example: []string{"bucket_bounce_rate", "bucket_order_items"}
	Tables []string

	// OnlyFuture drops predictions for dates that are not strictly after the
	// last observed date, so only future-looking rows are written.
	OnlyFuture bool

	// SkipTypes overrides the default set of column type substrings excluded
	// from forecasting (db.DefaultSkipTypes).
	SkipTypes []string

	// Forecaster overrides the default seasonal-trend model.
	Forecaster Forecaster

	// Logger receives run progress. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o *Options) validate() error {
	if o.Database == "" {
		return errors.New("database name is required")
	}
	if o.Interval <= 0 {
		return fmt.Errorf("interval must be a positive number of days, got %d", o.Interval)
	}
	return nil
}

// Run opens a connection from the environment configuration and processes
// every candidate table. The returned error is fatal for the run: either the
// connection could not be established or a table failed outside the model
// boundary.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := db.Open(ctx, cfg, opts.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer func() { _ = client.Close() }()

	if opts.Logger != nil {
		opts.Logger.Info("connected to ClickHouse",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("database", opts.Database))
	}

	return runWithClient(ctx, client, opts)
}

// RunWithDB drives a forecast run over an existing connection. Useful for
// tests and for callers that manage their own *sql.DB.
func RunWithDB(ctx context.Context, sqldb *sql.DB, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return runWithClient(ctx, db.NewClientFromDB(sqldb, opts.Database), opts)
}

func runWithClient(ctx context.Context, client *db.Client, opts Options) (*Result, error) {
	forecaster := opts.Forecaster
	if forecaster == nil {
		forecaster = forecast.NewSeasonalTrend()
	}

	r := runner.New(client, forecaster, runner.Config{
		Interval:   opts.Interval,
		OnlyFuture: opts.OnlyFuture,
		Tables:     opts.Tables,
		SkipTypes:  opts.SkipTypes,
	}, opts.Logger)

	return r.Run(ctx)
}
