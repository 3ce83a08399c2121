package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputRowMaps(t *testing.T) {
	input := []any{
		map[string]any{"Concepto": "Ventas", "Importe": "100"},
		map[string]any{"Concepto": "Gastos", "Importe": "-50"},
	}

	table, err := ParseInput(input)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.ElementsMatch(t, []string{"Concepto", "Importe"}, table.Columns)
}

func TestParseInputHeadersRows(t *testing.T) {
	input := map[string]any{
		"headers": []any{"concepto", "importe"},
		"rows": []any{
			[]any{"Ventas", "100"},
			[]any{"Gastos"},
		},
	}

	table, err := ParseInput(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"concepto", "importe"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Ventas", table.Rows[0]["concepto"])
	// Short rows are padded.
	assert.Nil(t, table.Rows[1]["importe"])
}

func TestParseInputRejectsNonTabular(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "nil", input: nil},
		{name: "scalar", input: 42},
		{name: "string", input: "csv,data"},
		{name: "list of scalars", input: []any{1, 2, 3}},
		{name: "object without headers", input: map[string]any{"rows": []any{}}},
		{name: "object with non-list rows", input: map[string]any{"headers": []any{"a"}, "rows": "x"}},
		{name: "headers not strings", input: map[string]any{"headers": []any{1}, "rows": []any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotTabular)
		})
	}
}

func TestNormalizeColumnNames(t *testing.T) {
	table := &Table{
		Columns: []string{"  Concepto ", "IMPORTE", "Fecha"},
		Rows: []map[string]any{
			{"  Concepto ": "Ventas", "IMPORTE": 1.0, "Fecha": "2024-01-01"},
		},
	}

	table.NormalizeColumnNames()

	assert.Equal(t, []string{"concepto", "importe", "fecha"}, table.Columns)
	assert.Equal(t, "Ventas", table.Rows[0]["concepto"])
	assert.Equal(t, 1.0, table.Rows[0]["importe"])
}

func TestDropEmptyRowsIdempotent(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows: []map[string]any{
			{"a": "x", "b": nil},
			{"a": "", "b": nil},
			{"a": "  ", "b": ""},
			{"a": nil, "b": 0},
		},
	}

	removed := table.DropEmptyRows()
	assert.Equal(t, 2, removed)
	require.Len(t, table.Rows, 2)

	// Second application removes nothing.
	assert.Equal(t, 0, table.DropEmptyRows())
	assert.Len(t, table.Rows, 2)
}

func TestDropEmptyColumnsIdempotent(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "empty", "b"},
		Rows: []map[string]any{
			{"a": "x", "empty": nil, "b": 1},
			{"a": "y", "empty": "  ", "b": 2},
		},
	}

	removed := table.DropEmptyColumns()
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.NotContains(t, table.Rows[0], "empty")

	assert.Equal(t, 0, table.DropEmptyColumns())
	assert.Equal(t, []string{"a", "b"}, table.Columns)
}

func TestCloneIsDeep(t *testing.T) {
	table := &Table{
		Columns: []string{"a"},
		Rows:    []map[string]any{{"a": 1}},
	}

	cp := table.Clone()
	cp.Rows[0]["a"] = 2
	cp.Columns[0] = "z"

	assert.Equal(t, 1, table.Rows[0]["a"])
	assert.Equal(t, "a", table.Columns[0])
}
