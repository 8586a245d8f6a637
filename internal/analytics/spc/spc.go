// Package spc implements Statistical Process Control charts over periodic
// measurements: p-charts for proportions, u-charts for rates and
// individuals/moving-range charts for continuous values.
//
// Every calculation is a pure function of its arguments. Nothing is logged and
// no state is shared between calls, so Calculate may run concurrently from any
// number of callers.
package spc

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DataType describes what a metric's values represent
type DataType string

const (
	DataTypeProportion DataType = "proportion" // numerator/denominator as a percentage
	DataTypeRate       DataType = "rate"       // events per unit of exposure
	DataTypeContinuous DataType = "continuous" // raw measurement
)

// Valid reports whether d is one of the known data types
func (d DataType) Valid() bool {
	switch d {
	case DataTypeProportion, DataTypeRate, DataTypeContinuous:
		return true
	}
	return false
}

// ChartType identifies a control chart
type ChartType string

const (
	ChartTypeP   ChartType = "p-chart"
	ChartTypeU   ChartType = "u-chart"
	ChartTypeIMR ChartType = "i-mr"
)

// Control chart table constants for moving ranges of two consecutive points
const (
	D2 = 1.128 // bias correction: sigma = mean moving range / D2
	D4 = 3.267 // upper limit factor for the moving range chart
)

// DefaultSigmaLevel is the classical 3-sigma control limit width
const DefaultSigmaLevel = 3.0

// DataPoint is one reporting period of a metric.
// Numerator and Denominator are required for proportion and rate data and
// ignored for continuous data; nil means the count was not reported.
type DataPoint struct {
	Period      string   `json:"period"`
	Value       float64  `json:"value"`
	Numerator   *float64 `json:"numerator,omitempty"`
	Denominator *float64 `json:"denominator,omitempty"`
}

// Options tunes a calculation. The zero value uses 3-sigma limits, the whole
// series as baseline and the default rule battery.
type Options struct {
	// SigmaLevel is the control limit width in standard errors.
	// Non-positive values fall back to DefaultSigmaLevel.
	SigmaLevel float64

	// BaselineStart and BaselineEnd bound, inclusively, the periods used for
	// the center line and sigma. Empty means unbounded on that side.
	BaselineStart string
	BaselineEnd   string

	// Rules replaces the special-cause rule battery when non-nil
	Rules []Rule
}

// Point is an input point annotated with its control limits and the
// special-cause rules it triggered
type Point struct {
	Period            string   `json:"period"`
	Value             float64  `json:"value"`
	CenterLine        float64  `json:"centerLine"`
	UCL               float64  `json:"ucl"`
	LCL               float64  `json:"lcl"`
	SpecialCause      bool     `json:"specialCause"`
	SpecialCauseRules []string `json:"specialCauseRules"`
}

// MovingRangePoint is one entry of the moving range chart. Period is the
// period of the later point of the pair.
type MovingRangePoint struct {
	Period     string  `json:"period"`
	Value      float64 `json:"value"`
	CenterLine float64 `json:"centerLine"`
	UCL        float64 `json:"ucl"`
	LCL        float64 `json:"lcl"`
}

// Result is the output of Calculate. MovingRange is only populated for i-mr
// charts.
type Result struct {
	ChartType   ChartType
	CenterLine  float64
	Points      []Point
	MovingRange []MovingRangePoint
}

// MarshalJSON emits movingRange only for i-mr charts, as [] when empty
func (r Result) MarshalJSON() ([]byte, error) {
	type out struct {
		ChartType   ChartType           `json:"chartType"`
		CenterLine  float64             `json:"centerLine"`
		Points      []Point             `json:"points"`
		MovingRange *[]MovingRangePoint `json:"movingRange,omitempty"`
	}

	o := out{ChartType: r.ChartType, CenterLine: r.CenterLine, Points: r.Points}
	if o.Points == nil {
		o.Points = []Point{}
	}
	if r.ChartType == ChartTypeIMR {
		mr := r.MovingRange
		if mr == nil {
			mr = []MovingRangePoint{}
		}
		o.MovingRange = &mr
	}
	return json.Marshal(o)
}

// UnmarshalJSON reads the format written by MarshalJSON
func (r *Result) UnmarshalJSON(data []byte) error {
	var in struct {
		ChartType   ChartType          `json:"chartType"`
		CenterLine  float64            `json:"centerLine"`
		Points      []Point            `json:"points"`
		MovingRange []MovingRangePoint `json:"movingRange"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{
		ChartType:   in.ChartType,
		CenterLine:  in.CenterLine,
		Points:      in.Points,
		MovingRange: in.MovingRange,
	}
	return nil
}

// Calculator computes the center line and per-point limits of one chart type.
// Special-cause rules are applied by Calculate afterwards.
type Calculator interface {
	// ChartType returns the chart this calculator produces
	ChartType() ChartType

	// Limits annotates every point of points with its center line and
	// control limits, using only baseline for the center line and sigma
	Limits(points, baseline []DataPoint, sigmaLevel float64) *Result
}

// registry is written only from init functions
var calculatorRegistry = make(map[ChartType]Calculator)

// RegisterCalculator adds a calculator to the registry
func RegisterCalculator(calc Calculator) {
	calculatorRegistry[calc.ChartType()] = calc
}

// GetCalculator returns the calculator for a chart type
func GetCalculator(chartType ChartType) (Calculator, error) {
	if calc, ok := calculatorRegistry[chartType]; ok {
		return calc, nil
	}
	return nil, fmt.Errorf("unknown chart type: %s", chartType)
}

// ListCalculators returns the registered chart types in sorted order
func ListCalculators() []ChartType {
	types := make([]ChartType, 0, len(calculatorRegistry))
	for t := range calculatorRegistry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ChartTypeForDataType maps a data type to its control chart.
// Unknown data types are treated as continuous measurements.
func ChartTypeForDataType(dataType DataType) ChartType {
	switch dataType {
	case DataTypeProportion:
		return ChartTypeP
	case DataTypeRate:
		return ChartTypeU
	default:
		return ChartTypeIMR
	}
}

// Calculate builds the control chart for points. The result always holds one
// Point per input point, in input order.
func Calculate(dataType DataType, points []DataPoint, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}

	sigmaLevel := opts.SigmaLevel
	if sigmaLevel <= 0 {
		sigmaLevel = DefaultSigmaLevel
	}

	chartType := ChartTypeForDataType(dataType)
	calc, err := GetCalculator(chartType)
	if err != nil {
		// Fallback to individuals chart
		calc = &IMRChart{}
	}

	baseline := FilterBaseline(points, opts.BaselineStart, opts.BaselineEnd)
	result := calc.Limits(points, baseline, sigmaLevel)

	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	ApplyRules(result.Points, rules)

	return result
}

func newPoint(dp DataPoint, centerLine, ucl, lcl float64) Point {
	return Point{
		Period:            dp.Period,
		Value:             dp.Value,
		CenterLine:        centerLine,
		UCL:               ucl,
		LCL:               lcl,
		SpecialCauseRules: []string{},
	}
}
