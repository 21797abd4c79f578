package helpers

import (
	"bytes"
	"encoding/json"
)

// DecodeJSON parses data as a single JSON value with numbers normalized by
// FixJSONNumbers. It reports false when data is not exactly one JSON value.
func DecodeJSON(data []byte) (any, bool) {
	var v any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&v); err != nil || d.More() {
		return nil, false
	}
	return FixJSONNumbers(v), true
}

// FixJSONNumbers converts json.Number values to int64 when they are integral
// and float64 otherwise. Maps and slices are rewritten in place.
func FixJSONNumbers(data any) any {
	switch v := data.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, val := range v {
			v[k] = FixJSONNumbers(val)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = FixJSONNumbers(item)
		}
		return v
	default:
		return data
	}
}
