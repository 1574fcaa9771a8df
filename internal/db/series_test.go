package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeries(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqldb.Close()

	day1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, revenue, visits FROM forecast_db.bucket_sales ORDER BY date")).
		WillReturnRows(sqlmock.NewRows([]string{"date", "revenue", "visits"}).
			AddRow(day1, 100.5, 42.0).
			AddRow(day2, 101.25, nil))

	client := NewClientFromDB(sqldb, "forecast_db")
	series, err := client.ReadSeries(context.Background(), "bucket_sales", []Column{
		{Name: "revenue", Type: "Float64"},
		{Name: "visits", Type: "Nullable(Float64)"},
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, day1, series[0].Date)
	assert.Equal(t, 100.5, series[0].Values[0].Float64)
	assert.True(t, series[0].Values[1].Valid)
	assert.Equal(t, 42.0, series[0].Values[1].Float64)

	assert.Equal(t, day2, series[1].Date)
	assert.False(t, series[1].Values[1].Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadSeriesEmptyTable(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqldb.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT date, revenue FROM forecast_db.bucket_sales ORDER BY date")).
		WillReturnRows(sqlmock.NewRows([]string{"date", "revenue"}))

	client := NewClientFromDB(sqldb, "forecast_db")
	series, err := client.ReadSeries(context.Background(), "bucket_sales", []Column{
		{Name: "revenue", Type: "Float64"},
	})
	require.NoError(t, err)

	assert.Empty(t, series)
}
