// Package stats wraps montanaflynn/stats with the safe defaults the scoring
// formulas expect: thin or degenerate samples yield neutral zeros instead of
// errors.
package stats

import (
	"math"

	mf "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, or 0 for an empty sample.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m, err := mf.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

// Stdev returns the sample standard deviation, or 0 when fewer than two
// samples exist.
func Stdev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sd, err := mf.StandardDeviationSample(data)
	if err != nil || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0
	}
	return sd
}

// Pearson returns the Pearson correlation coefficient between x and y.
// Fewer than three pairs, mismatched lengths, or zero variance in either
// series all yield 0.
func Pearson(x, y []float64) float64 {
	if len(x) < 3 || len(x) != len(y) {
		return 0
	}
	r, err := mf.Pearson(x, y)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Round1 rounds to one decimal place; every stored score uses this precision.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
