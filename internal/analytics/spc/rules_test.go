package spc

import (
	"testing"
)

func chartPoints(values []float64, center, ucl, lcl float64) []Point {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Value: v, CenterLine: center, UCL: ucl, LCL: lcl}
	}
	return points
}

func TestBeyondLimitsRule(t *testing.T) {
	points := chartPoints([]float64{5, 10, 15, 10.0001, -0.1, 0}, 5, 10, 0)
	rule := BeyondLimitsRule{}

	expected := []bool{false, false, true, true, true, false}
	for i, want := range expected {
		if got := rule.Evaluate(points, i); got != want {
			t.Errorf("point %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestRunRule_Above(t *testing.T) {
	points := chartPoints([]float64{6, 6, 6, 6, 6, 6, 6, 6, 6}, 5, 100, 0)
	rule := RunRule{Length: 8}

	for i := 0; i < 7; i++ {
		if rule.Evaluate(points, i) {
			t.Errorf("point %d: run of %d should not fire", i, i+1)
		}
	}
	if !rule.Evaluate(points, 7) {
		t.Error("Expected run rule to fire on 8th point")
	}
	if !rule.Evaluate(points, 8) {
		t.Error("Expected run rule to keep firing on 9th point")
	}
}

func TestRunRule_Below(t *testing.T) {
	points := chartPoints([]float64{4, 4, 4, 4, 4, 4, 4, 4}, 5, 100, 0)

	if !(RunRule{Length: 8}).Evaluate(points, 7) {
		t.Error("Expected run rule to fire for 8 points below center line")
	}
}

func TestRunRule_CenterLineBreaksRun(t *testing.T) {
	points := chartPoints([]float64{6, 6, 6, 6, 5, 6, 6, 6, 6, 6, 6}, 5, 100, 0)
	rule := RunRule{Length: 8}

	for i := range points {
		if rule.Evaluate(points, i) {
			t.Errorf("point %d: run broken by center line point should not fire", i)
		}
	}
}

func TestRunRule_SideSwitchBreaksRun(t *testing.T) {
	points := chartPoints([]float64{6, 6, 6, 6, 4, 4, 4, 4}, 5, 100, 0)

	if (RunRule{Length: 8}).Evaluate(points, 7) {
		t.Error("Expected mixed sides not to count as a run")
	}
}

func TestRunRule_UsesPerPointCenterLine(t *testing.T) {
	points := chartPoints([]float64{6, 6, 6, 6, 6, 6, 6, 6}, 5, 100, 0)
	points[3].CenterLine = 7

	if (RunRule{Length: 8}).Evaluate(points, 7) {
		t.Error("Expected point below its own center line to break the run")
	}
}

func TestRunRule_DefaultLength(t *testing.T) {
	rule := RunRule{}

	if rule.Name() != "Run of 8+ points on one side of center line" {
		t.Errorf("Unexpected rule name: %s", rule.Name())
	}

	custom := RunRule{Length: 7}
	if custom.Name() != "Run of 7+ points on one side of center line" {
		t.Errorf("Unexpected rule name: %s", custom.Name())
	}

	points := chartPoints([]float64{6, 6, 6, 6, 6, 6, 6}, 5, 100, 0)
	if !custom.Evaluate(points, 6) {
		t.Error("Expected run of 7 to fire")
	}
	if rule.Evaluate(points, 6) {
		t.Error("Expected default run of 8 not to fire on 7 points")
	}
}

func TestTrendRule(t *testing.T) {
	rule := TrendRule{Length: 6}

	increasing := chartPoints([]float64{1, 2, 3, 4, 5, 6}, 0, 100, -100)
	if !rule.Evaluate(increasing, 5) {
		t.Error("Expected increasing trend to fire")
	}
	if rule.Evaluate(increasing, 4) {
		t.Error("Expected 5-point trend not to fire")
	}

	decreasing := chartPoints([]float64{9, 8, 7, 6, 5, 4}, 0, 100, -100)
	if !rule.Evaluate(decreasing, 5) {
		t.Error("Expected decreasing trend to fire")
	}

	flat := chartPoints([]float64{1, 2, 3, 3, 4, 5, 6}, 0, 100, -100)
	if rule.Evaluate(flat, 6) {
		t.Error("Expected a repeated value to break the trend")
	}

	zigzag := chartPoints([]float64{1, 2, 3, 2, 3, 4}, 0, 100, -100)
	if rule.Evaluate(zigzag, 5) {
		t.Error("Expected a direction change to break the trend")
	}

	if (TrendRule{}).Name() != "Trend of 6+ points steadily increasing or decreasing" {
		t.Errorf("Unexpected default trend name: %s", (TrendRule{}).Name())
	}
}

func TestApplyRules_BothRulesFire(t *testing.T) {
	points := chartPoints([]float64{6, 6, 6, 6, 6, 6, 6, 20}, 5, 10, 0)

	ApplyRules(points, DefaultRules())

	last := points[7]
	if !last.SpecialCause {
		t.Fatal("Expected last point to be a special cause")
	}
	if len(last.SpecialCauseRules) != 2 {
		t.Fatalf("Expected 2 rules to fire, got %v", last.SpecialCauseRules)
	}
	if last.SpecialCauseRules[0] != "Beyond control limits" {
		t.Errorf("Expected beyond limits first, got %s", last.SpecialCauseRules[0])
	}

	for i := 0; i < 7; i++ {
		if points[i].SpecialCause {
			t.Errorf("point %d: expected no special cause", i)
		}
		if points[i].SpecialCauseRules == nil {
			t.Errorf("point %d: expected empty, non-nil rule list", i)
		}
	}
}
