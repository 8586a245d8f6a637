package spc

import (
	"testing"
)

func periods(points []DataPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Period
	}
	return out
}

func TestFilterBaseline(t *testing.T) {
	points := []DataPoint{
		{Period: "2025-01"}, {Period: "2025-02"}, {Period: "2025-03"},
		{Period: "2025-04"}, {Period: "2025-05"},
	}

	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{"unbounded", "", "", []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05"}},
		{"end only", "", "2025-02", []string{"2025-01", "2025-02"}},
		{"start only", "2025-04", "", []string{"2025-04", "2025-05"}},
		{"both inclusive", "2025-02", "2025-04", []string{"2025-02", "2025-03", "2025-04"}},
		{"single period", "2025-03", "2025-03", []string{"2025-03"}},
		{"prefix bound", "2025", "2025-02", []string{"2025-01", "2025-02"}},
		{"excludes all", "2026-01", "", []string{}},
		{"inverted", "2025-04", "2025-02", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := periods(FilterBaseline(points, tt.start, tt.end))
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestFilterBaseline_LexicographicNotChronological(t *testing.T) {
	// non-padded months sort as strings, not dates
	points := []DataPoint{{Period: "2025-9"}, {Period: "2025-10"}, {Period: "2025-11"}}

	got := periods(FilterBaseline(points, "", "2025-2"))
	if len(got) != 2 || got[0] != "2025-10" || got[1] != "2025-11" {
		t.Errorf("Expected string comparison to keep 2025-10 and 2025-11, got %v", got)
	}
}
