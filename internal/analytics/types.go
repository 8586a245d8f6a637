// Package analytics provides common numeric helpers shared by the control chart
// calculators.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is an ordered sequence of observed values
type Series []float64

// Len returns the number of values
func (s Series) Len() int {
	return len(s)
}

// Sum returns the sum of all values, 0 for an empty series
func (s Series) Sum() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Sum(s)
}

// Mean returns the arithmetic mean, 0 for an empty series
func (s Series) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}

// MovingRanges returns |s[i+1]-s[i]| for every consecutive pair.
// The result has len(s)-1 entries, or none when the series has fewer than two values.
func (s Series) MovingRanges() Series {
	if len(s) < 2 {
		return Series{}
	}
	ranges := make(Series, len(s)-1)
	for i := 0; i < len(s)-1; i++ {
		ranges[i] = math.Abs(s[i+1] - s[i])
	}
	return ranges
}

// Ratio returns num/den, or 0 when den is not positive
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
