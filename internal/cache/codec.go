package cache

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// Encode marshals v to JSON and compresses it with Snappy
func Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache payload: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// Decode reverses Encode into v
func Decode(payload []byte, v interface{}) error {
	data, err := snappy.Decode(nil, payload)
	if err != nil {
		return fmt.Errorf("snappy decompress failed: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal cache payload: %w", err)
	}
	return nil
}
