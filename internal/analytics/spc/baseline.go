package spc

// FilterBaseline returns the points whose period lies in [start, end].
// Periods are compared as strings, so callers must use a sortable format such
// as YYYY-MM. An empty bound leaves that side open; with both bounds empty the
// input slice itself is returned.
func FilterBaseline(points []DataPoint, start, end string) []DataPoint {
	if start == "" && end == "" {
		return points
	}

	baseline := make([]DataPoint, 0, len(points))
	for _, p := range points {
		if start != "" && p.Period < start {
			continue
		}
		if end != "" && p.Period > end {
			continue
		}
		baseline = append(baseline, p)
	}
	return baseline
}
