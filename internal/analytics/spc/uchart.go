package spc

import (
	"math"

	"github.com/emsqi/spc/internal/analytics"
)

// UChart computes u-chart limits for rates (events per unit of exposure).
// Rates are not bounded above, so only the lower limit is clamped.
type UChart struct{}

func init() {
	RegisterCalculator(&UChart{})
}

// ChartType returns ChartTypeU
func (u *UChart) ChartType() ChartType {
	return ChartTypeU
}

// Limits computes ubar = sum(numerator)/sum(denominator) over the baseline and
// per-point limits ubar +- k*sqrt(ubar/n) with the lower limit floored at 0.
func (u *UChart) Limits(points, baseline []DataPoint, sigmaLevel float64) *Result {
	num, den := subgroupTotals(baseline)
	ubar := math.Max(0, analytics.Ratio(num, den))

	result := &Result{
		ChartType:  ChartTypeU,
		CenterLine: ubar,
		Points:     make([]Point, len(points)),
	}

	for i, dp := range points {
		n, ok := subgroupSize(dp)
		if !ok {
			result.Points[i] = newPoint(dp, ubar, ubar, ubar)
			continue
		}

		sigma := math.Sqrt(ubar / n)
		ucl := ubar + sigmaLevel*sigma
		lcl := math.Max(0, ubar-sigmaLevel*sigma)
		result.Points[i] = newPoint(dp, ubar, ucl, lcl)
	}

	return result
}
