// Package forecast defines the model boundary of the forecasting pipeline
// and the reshaping of per-column predictions into insertable rows.
package forecast

import (
	"context"
	"time"
)

// Observation is one measured value of a single column on one date.
// A missing measurement is represented as NaN and dropped before fitting.
type Observation struct {
	Date  time.Time
	Value float64
}

// Point is one model prediction: an estimate with its confidence band.
// Implementations produce Lower <= Estimate <= Upper.
type Point struct {
	Date     time.Time
	Estimate float64
	Lower    float64
	Upper    float64
}

// Forecaster fits a model to an observed series and predicts a daily horizon
// of horizonDays beyond the last observed date. Unless onlyFuture is set,
// in-sample predictions for the observed dates are returned as well.
type Forecaster interface {
	Forecast(ctx context.Context, series []Observation, horizonDays int, onlyFuture bool) ([]Point, error)
}
