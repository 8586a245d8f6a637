package spc

import (
	"math"

	"github.com/emsqi/spc/internal/analytics"
)

// PChart computes p-chart limits for proportions reported on a 0-100 scale.
// The center line is the exposure-weighted proportion of the baseline and each
// point gets limits from its own subgroup size.
type PChart struct{}

func init() {
	RegisterCalculator(&PChart{})
}

// ChartType returns ChartTypeP
func (p *PChart) ChartType() ChartType {
	return ChartTypeP
}

// Limits computes sum(numerator)/sum(denominator)*100 over the baseline and
// per-point limits pbar +- k*sqrt(pbar(1-pbar)/n)*100, clamped to [0, 100].
// A point missing either count, or with a non-positive denominator, gets a
// zero-width band.
func (p *PChart) Limits(points, baseline []DataPoint, sigmaLevel float64) *Result {
	num, den := subgroupTotals(baseline)
	pbar := analytics.Ratio(num, den)
	centerLine := pbar * 100

	// numerators above their denominators would make the variance negative
	variance := math.Max(0, pbar*(1-pbar))

	result := &Result{
		ChartType:  ChartTypeP,
		CenterLine: centerLine,
		Points:     make([]Point, len(points)),
	}

	for i, dp := range points {
		n, ok := subgroupSize(dp)
		if !ok {
			result.Points[i] = newPoint(dp, centerLine, centerLine, centerLine)
			continue
		}

		sigma := math.Sqrt(variance/n) * 100
		ucl := math.Min(100, centerLine+sigmaLevel*sigma)
		lcl := math.Max(0, centerLine-sigmaLevel*sigma)
		result.Points[i] = newPoint(dp, centerLine, ucl, lcl)
	}

	return result
}

// subgroupTotals sums numerators and denominators of the points reporting both
func subgroupTotals(points []DataPoint) (num, den float64) {
	nums := make(analytics.Series, 0, len(points))
	dens := make(analytics.Series, 0, len(points))
	for _, dp := range points {
		if dp.Numerator == nil || dp.Denominator == nil {
			continue
		}
		nums = append(nums, *dp.Numerator)
		dens = append(dens, *dp.Denominator)
	}
	return nums.Sum(), dens.Sum()
}

// subgroupSize returns the point's denominator when both counts are present
// and the denominator is positive
func subgroupSize(dp DataPoint) (float64, bool) {
	if dp.Numerator == nil || dp.Denominator == nil || *dp.Denominator <= 0 {
		return 0, false
	}
	return *dp.Denominator, true
}
