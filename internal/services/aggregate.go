package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/emsqi/spc/internal/analytics"
	"github.com/emsqi/spc/internal/analytics/spc"
)

// MetricEntry is one raw submission for a metric: a division's counts or
// measurement for a reporting period
type MetricEntry struct {
	DivisionID  string   `json:"division_id"`
	Period      string   `json:"period"`
	Value       *float64 `json:"value,omitempty"`
	Numerator   *float64 `json:"numerator,omitempty"`
	Denominator *float64 `json:"denominator,omitempty"`
}

type periodBucket struct {
	num, den  float64
	hasCounts bool
	values    analytics.Series
}

// AggregateEntries rolls entries up into one data point per period, ordered by
// period string. An empty divisionID keeps every division.
//
// Proportion and rate periods sum numerators and denominators over the entries
// reporting both; the value is num/den*100 for proportions and num/den for
// rates. Continuous periods take the mean of the reported values. Periods with
// nothing usable for the data type are left out.
func AggregateEntries(entries []MetricEntry, dataType spc.DataType, divisionID string) ([]spc.DataPoint, error) {
	buckets := make(map[string]*periodBucket)

	for i, e := range entries {
		if divisionID != "" && e.DivisionID != divisionID {
			continue
		}
		if e.Period == "" {
			return nil, NewServiceErrorWithDetails(CodeInvalidEntry,
				fmt.Sprintf("entry %d has no period", i),
				map[string]interface{}{"index": i, "division_id": e.DivisionID})
		}

		b, ok := buckets[e.Period]
		if !ok {
			b = &periodBucket{}
			buckets[e.Period] = b
		}

		if e.Numerator != nil && e.Denominator != nil {
			b.num += *e.Numerator
			b.den += *e.Denominator
			b.hasCounts = true
		}
		if e.Value != nil {
			b.values = append(b.values, *e.Value)
		}
	}

	periods := make([]string, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	points := make([]spc.DataPoint, 0, len(periods))
	for _, period := range periods {
		b := buckets[period]

		switch dataType {
		case spc.DataTypeProportion, spc.DataTypeRate:
			if !b.hasCounts {
				continue
			}
			value := analytics.Ratio(b.num, b.den)
			if dataType == spc.DataTypeProportion {
				value *= 100
			}
			num, den := b.num, b.den
			points = append(points, spc.DataPoint{
				Period:      period,
				Value:       value,
				Numerator:   &num,
				Denominator: &den,
			})

		default:
			if b.values.Len() == 0 {
				continue
			}
			points = append(points, spc.DataPoint{
				Period: period,
				Value:  b.values.Mean(),
			})
		}
	}

	return points, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
