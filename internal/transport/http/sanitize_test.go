package http

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"finite float", 12.5, 12.5},
		{"nan", math.NaN(), nil},
		{"positive inf", math.Inf(1), nil},
		{"negative inf", math.Inf(-1), nil},
		{"string", "hello", "hello"},
		{"int", 7, 7},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeValue(tt.in))
		})
	}
}

func TestSanitizeNested(t *testing.T) {
	in := map[string]any{
		"rows": []any{
			map[string]any{"amount": math.Inf(1), "name": "a"},
			[]any{math.NaN(), 1.0},
		},
	}

	out := sanitizeValue(in).(map[string]any)
	rows := out["rows"].([]any)
	assert.Nil(t, rows[0].(map[string]any)["amount"])
	assert.Equal(t, "a", rows[0].(map[string]any)["name"])
	assert.Nil(t, rows[1].([]any)[0])
	assert.Equal(t, 1.0, rows[1].([]any)[1])
}

func TestSanitizeRows(t *testing.T) {
	rows := []map[string]any{{"x": math.NaN()}, {"x": 2.0}}
	out := sanitizeRows(rows)
	assert.Nil(t, out[0]["x"])
	assert.Equal(t, 2.0, out[1]["x"])
}
