package spc

import (
	"github.com/emsqi/spc/internal/analytics"
)

// IMRChart computes an individuals chart with its companion moving range chart
// for continuous measurements without natural subgroups.
type IMRChart struct{}

func init() {
	RegisterCalculator(&IMRChart{})
}

// ChartType returns ChartTypeIMR
func (c *IMRChart) ChartType() ChartType {
	return ChartTypeIMR
}

// Limits uses the baseline mean as center line. The mean moving range is taken
// over the full series, not the baseline. Individuals limits are
// mean +- k*MRbar/D2 and identical for every point; the moving range chart uses
// the fixed D4 factor regardless of sigmaLevel.
func (c *IMRChart) Limits(points, baseline []DataPoint, sigmaLevel float64) *Result {
	mean := values(baseline).Mean()

	ranges := values(points).MovingRanges()
	mrBar := ranges.Mean()

	halfWidth := sigmaLevel * (mrBar / D2)
	ucl := mean + halfWidth
	lcl := mean - halfWidth

	result := &Result{
		ChartType:   ChartTypeIMR,
		CenterLine:  mean,
		Points:      make([]Point, len(points)),
		MovingRange: make([]MovingRangePoint, len(ranges)),
	}

	for i, dp := range points {
		result.Points[i] = newPoint(dp, mean, ucl, lcl)
	}

	mrUCL := D4 * mrBar
	for i, mr := range ranges {
		result.MovingRange[i] = MovingRangePoint{
			Period:     points[i+1].Period,
			Value:      mr,
			CenterLine: mrBar,
			UCL:        mrUCL,
			LCL:        0,
		}
	}

	return result
}

func values(points []DataPoint) analytics.Series {
	s := make(analytics.Series, len(points))
	for i, dp := range points {
		s[i] = dp.Value
	}
	return s
}
