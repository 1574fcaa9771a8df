package chforecast

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chforecast/internal/forecast"
)

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "missing database", opts: Options{Interval: 7}},
		{name: "zero interval", opts: Options{Database: "forecast_db"}},
		{name: "negative interval", opts: Options{Database: "forecast_db", Interval: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqldb, _, err := sqlmock.New()
			require.NoError(t, err)
			defer sqldb.Close()

			_, err = RunWithDB(context.Background(), sqldb, tt.opts)
			assert.Error(t, err)
		})
	}
}

// flatForecaster predicts a constant value for each horizon day.
type flatForecaster struct{ value float64 }

func (f *flatForecaster) Forecast(_ context.Context, series []forecast.Observation, horizonDays int, _ bool) ([]forecast.Point, error) {
	last := series[len(series)-1].Date
	points := make([]forecast.Point, 0, horizonDays)
	for d := 1; d <= horizonDays; d++ {
		points = append(points, forecast.Point{
			Date:     last.AddDate(0, 0, d),
			Estimate: f.value,
			Lower:    f.value,
			Upper:    f.value,
		})
	}
	return points, nil
}

func TestRunWithDBEndToEnd(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqldb.Close()

	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW TABLES FROM forecast_db")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow("bucket_sales").
			AddRow("bucket_forecast_sales"))

	describeRows := sqlmock.NewRows([]string{
		"name", "type", "default_type", "default_expression", "comment", "codec_expression", "ttl_expression",
	}).
		AddRow("date", "Date", "", "", "", "", "").
		AddRow("revenue", "Float64", "", "", "", "", "").
		AddRow("label", "String", "", "", "", "", "")
	mock.ExpectQuery(regexp.QuoteMeta("DESCRIBE TABLE forecast_db.bucket_sales")).
		WillReturnRows(describeRows)

	mock.ExpectQuery(regexp.QuoteMeta("EXISTS TABLE forecast_db.bucket_forecast_sales")).
		WillReturnRows(sqlmock.NewRows([]string{"result"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(
		"CREATE TABLE forecast_db.bucket_forecast_sales (date Date, revenue Float64, revenue_min Float64, revenue_max Float64) ENGINE = MergeTree() ORDER BY date")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, revenue FROM forecast_db.bucket_sales ORDER BY date")).
		WillReturnRows(sqlmock.NewRows([]string{"date", "revenue"}).
			AddRow(day1, 100.0).
			AddRow(day1.AddDate(0, 0, 1), 110.0))

	mock.ExpectExec("INSERT INTO forecast_db\\.bucket_forecast_sales .+").
		WillReturnResult(sqlmock.NewResult(0, 3))

	result, err := RunWithDB(context.Background(), sqldb, Options{
		Database:   "forecast_db",
		Interval:   3,
		OnlyFuture: true,
		Forecaster: &flatForecaster{value: 105},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"bucket_sales"}, result.Successful)
	assert.Equal(t, []string{"bucket_sales"}, result.New)
	assert.Equal(t, []string{"bucket_forecast_sales"}, result.Skipped)
	assert.Empty(t, result.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
