package http

import "math"

// sanitizeValue replaces non-finite floats with nil so encoding/json never
// fails on NaN or Inf. Maps and slices are rewritten recursively.
func sanitizeValue(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = sanitizeValue(item)
		}
		return val
	case []map[string]any:
		for _, row := range val {
			sanitizeValue(row)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = sanitizeValue(item)
		}
		return val
	default:
		return v
	}
}

// sanitizeRows cleans row payloads in place before rendering.
func sanitizeRows(rows []map[string]any) []map[string]any {
	for _, row := range rows {
		sanitizeValue(row)
	}
	return rows
}
