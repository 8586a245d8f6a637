package spc

import "fmt"

// Rule is a special-cause detection rule
type Rule interface {
	// Name is the label appended to Point.SpecialCauseRules
	Name() string

	// Evaluate reports whether points[i] triggers the rule. Rules may look
	// back at earlier points but never ahead.
	Evaluate(points []Point, i int) bool
}

// DefaultRunLength is the run length of the classical Shewhart run rule
const DefaultRunLength = 8

// DefaultRules returns the default rule battery: beyond limits and run of 8
func DefaultRules() []Rule {
	return []Rule{BeyondLimitsRule{}, RunRule{Length: DefaultRunLength}}
}

// ApplyRules evaluates every rule on every point and records the labels of
// the rules that fired
func ApplyRules(points []Point, rules []Rule) {
	for i := range points {
		fired := make([]string, 0, len(rules))
		for _, rule := range rules {
			if rule.Evaluate(points, i) {
				fired = append(fired, rule.Name())
			}
		}
		points[i].SpecialCauseRules = fired
		points[i].SpecialCause = len(fired) > 0
	}
}

// BeyondLimitsRule flags a point above its UCL or below its LCL
type BeyondLimitsRule struct{}

// Name returns the rule label
func (BeyondLimitsRule) Name() string {
	return "Beyond control limits"
}

// Evaluate checks the single point
func (BeyondLimitsRule) Evaluate(points []Point, i int) bool {
	p := points[i]
	return p.Value > p.UCL || p.Value < p.LCL
}

// RunRule flags a point ending a run of Length or more consecutive points
// strictly on the same side of the center line. A point on the center line
// breaks the run.
type RunRule struct {
	Length int
}

func (r RunRule) length() int {
	if r.Length <= 0 {
		return DefaultRunLength
	}
	return r.Length
}

// Name returns the rule label
func (r RunRule) Name() string {
	return fmt.Sprintf("Run of %d+ points on one side of center line", r.length())
}

// Evaluate scans backward from points[i]
func (r RunRule) Evaluate(points []Point, i int) bool {
	side := sideOf(points[i])
	if side == 0 {
		return false
	}

	need := r.length()
	count := 0
	for j := i; j >= 0 && count < need; j-- {
		if sideOf(points[j]) != side {
			break
		}
		count++
	}
	return count >= need
}

func sideOf(p Point) int {
	switch {
	case p.Value > p.CenterLine:
		return 1
	case p.Value < p.CenterLine:
		return -1
	default:
		return 0
	}
}

// TrendRule flags a point ending Length or more consecutive points that are
// each strictly higher, or each strictly lower, than the one before.
type TrendRule struct {
	Length int
}

// DefaultTrendLength is the usual trend rule length
const DefaultTrendLength = 6

func (r TrendRule) length() int {
	if r.Length <= 1 {
		return DefaultTrendLength
	}
	return r.Length
}

// Name returns the rule label
func (r TrendRule) Name() string {
	return fmt.Sprintf("Trend of %d+ points steadily increasing or decreasing", r.length())
}

// Evaluate scans backward from points[i]
func (r TrendRule) Evaluate(points []Point, i int) bool {
	need := r.length()
	if i+1 < need {
		return false
	}

	direction := 0
	count := 1
	for j := i; j > 0 && count < need; j-- {
		step := 0
		switch {
		case points[j].Value > points[j-1].Value:
			step = 1
		case points[j].Value < points[j-1].Value:
			step = -1
		}
		if step == 0 || (direction != 0 && step != direction) {
			break
		}
		direction = step
		count++
	}
	return count >= need
}
