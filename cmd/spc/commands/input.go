package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emsqi/spc/internal/analytics/spc"
	"github.com/emsqi/spc/internal/services"
)

// calcInput is a decoded calc input. Exactly one of Points and Entries is
// non-nil.
type calcInput struct {
	Points  []spc.DataPoint         `json:"points"`
	Entries []services.MetricEntry `json:"entries"`
}

// decodeInput accepts a bare array, read as entries when entries is set, or
// an object with a "points" or "entries" array
func decodeInput(data []byte, entries bool) (*calcInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}

	var in calcInput
	switch data[0] {
	case '[':
		var err error
		if entries {
			err = json.Unmarshal(data, &in.Entries)
		} else {
			err = json.Unmarshal(data, &in.Points)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode input: %w", err)
		}

	case '{':
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to decode input: %w", err)
		}
		if in.Points != nil && in.Entries != nil {
			return nil, errors.New(`input has both "points" and "entries"`)
		}
		if entries && in.Points != nil {
			return nil, errors.New(`--entries given but input has "points"`)
		}

	default:
		return nil, errors.New("input must be a JSON array or object")
	}

	if in.Points == nil && in.Entries == nil {
		if entries {
			in.Entries = []services.MetricEntry{}
		} else {
			in.Points = []spc.DataPoint{}
		}
	}
	return &in, nil
}
