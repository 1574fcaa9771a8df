package forecast

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// intervalZ widens the residual spread into a ~95% prediction band.
const intervalZ = 1.96

// SeasonalTrend is the default forecasting model: an ordinary-least-squares
// linear trend plus additive day-of-week seasonality, with a prediction
// interval derived from the residual standard deviation. It is deterministic
// and cheap enough to run per column without batching.
type SeasonalTrend struct{}

// NewSeasonalTrend creates the default model.
func NewSeasonalTrend() *SeasonalTrend {
	return &SeasonalTrend{}
}

// Forecast fits the trend and seasonal components to the series and predicts
// one point per observed date (unless onlyFuture is set) plus one per day of
// the horizon beyond the last observed date.
func (s *SeasonalTrend) Forecast(_ context.Context, series []Observation, horizonDays int, onlyFuture bool) ([]Point, error) {
	obs := make([]Observation, 0, len(series))
	for _, o := range series {
		if !math.IsNaN(o.Value) {
			obs = append(obs, o)
		}
	}
	if len(obs) == 0 {
		return nil, errors.New("no usable observations")
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })

	origin := obs[0].Date
	xs := make([]float64, len(obs))
	ys := make([]float64, len(obs))
	for i, o := range obs {
		xs[i] = o.Date.Sub(origin).Hours() / 24
		ys[i] = o.Value
	}

	var alpha, beta float64
	if len(obs) == 1 {
		alpha = ys[0]
	} else {
		alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	}
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, errors.New("series does not support a linear fit")
	}

	// Day-of-week means of the detrended residuals.
	var seasonal [7]float64
	var counts [7]int
	for i, o := range obs {
		wd := o.Date.Weekday()
		seasonal[wd] += ys[i] - (alpha + beta*xs[i])
		counts[wd]++
	}
	for wd := range seasonal {
		if counts[wd] > 0 {
			seasonal[wd] /= float64(counts[wd])
		}
	}

	resid := make([]float64, len(obs))
	for i, o := range obs {
		resid[i] = ys[i] - (alpha + beta*xs[i] + seasonal[o.Date.Weekday()])
	}
	sigma := stat.StdDev(resid, nil)
	if math.IsNaN(sigma) {
		sigma = 0
	}

	last := obs[len(obs)-1].Date
	var dates []time.Time
	if !onlyFuture {
		for _, o := range obs {
			dates = append(dates, o.Date)
		}
	}
	for d := 1; d <= horizonDays; d++ {
		dates = append(dates, last.AddDate(0, 0, d))
	}

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		x := d.Sub(origin).Hours() / 24
		est := alpha + beta*x + seasonal[d.Weekday()]
		points = append(points, Point{
			Date:     d,
			Estimate: est,
			Lower:    est - intervalZ*sigma,
			Upper:    est + intervalZ*sigma,
		})
	}
	return points, nil
}
