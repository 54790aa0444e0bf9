// Package eta estimates completion time from progress samples.
package eta

import (
	"math"
	"time"
)

// Sample is a progress observation.
type Sample struct {
	At        time.Time `json:"at"`
	Completed int       `json:"completed"`
}

// Regression is a linear fit completed = Slope*elapsedSeconds + Intercept.
type Regression struct {
	Slope     float64
	Intercept float64
}

// Prediction is a remaining-time estimate.
type Prediction struct {
	Remaining  time.Duration
	Completion time.Time
}

// CalculateRegression fits a line through samples, measuring x as seconds
// since start. It returns false with fewer than two samples or when the
// elapsed times are all equal.
func CalculateRegression(samples []Sample, start time.Time) (Regression, bool) {
	n := len(samples)
	if n < 2 {
		return Regression{}, false
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, s := range samples {
		xs[i] = s.At.Sub(start).Seconds()
		ys[i] = float64(s.Completed)
	}

	if n == 2 {
		dx := xs[1] - xs[0]
		if dx == 0 {
			return Regression{}, false
		}
		slope := (ys[1] - ys[0]) / dx
		return Regression{Slope: slope, Intercept: ys[0] - slope*xs[0]}, true
	}

	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var num, den float64
	for i := range xs {
		dx := meanX - xs[i]
		num += dx * (meanY - ys[i])
		den += dx * dx
	}
	if den == 0 {
		return Regression{}, false
	}
	slope := num / den
	return Regression{Slope: slope, Intercept: meanY - slope*meanX}, true
}

// PredictRemainingTime extrapolates when totalTasks will be complete.
// It returns false when the fit shows no forward progress or the remaining
// time does not fit in a time.Duration.
func PredictRemainingTime(reg Regression, totalTasks int, elapsedSeconds float64, now time.Time) (Prediction, bool) {
	if reg.Slope <= 0 || math.IsNaN(reg.Slope) || math.IsInf(reg.Slope, 0) {
		return Prediction{}, false
	}
	finishAt := (float64(totalTasks) - reg.Intercept) / reg.Slope
	remaining := max(0, finishAt-elapsedSeconds)
	nanos := remaining * float64(time.Second)
	if math.IsNaN(nanos) || nanos >= math.MaxInt64 {
		return Prediction{}, false
	}
	d := time.Duration(nanos)
	return Prediction{Remaining: d, Completion: now.Add(d)}, true
}
