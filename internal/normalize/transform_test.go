package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpivot(t *testing.T) {
	table := &Table{
		Columns: []string{"concepto", "a2020", "a2021"},
		Rows: []map[string]any{
			{"concepto": "Ventas", "a2020": "1.000,00", "a2021": "1.500,00"},
			{"concepto": "Gastos", "a2020": "-500", "a2021": "-750"},
		},
	}

	out := Unpivot(table, []string{"a2020", "a2021"})

	require.Len(t, out.Rows, 4)
	assert.Equal(t, []string{"concepto", "year", "amount"}, out.Columns)

	assert.Equal(t, "Ventas", out.Rows[0]["concepto"])
	assert.Equal(t, "2020", out.Rows[0]["year"])
	assert.InDelta(t, 1000.0, out.Rows[0]["amount"].(float64), 1e-9)

	assert.Equal(t, "2021", out.Rows[1]["year"])
	assert.InDelta(t, 1500.0, out.Rows[1]["amount"].(float64), 1e-9)

	assert.Equal(t, "Gastos", out.Rows[2]["concepto"])
	assert.InDelta(t, -500.0, out.Rows[2]["amount"].(float64), 1e-9)
	assert.InDelta(t, -750.0, out.Rows[3]["amount"].(float64), 1e-9)
}

func TestUnpivotBareYearColumn(t *testing.T) {
	table := &Table{
		Columns: []string{"concept", "2020"},
		Rows:    []map[string]any{{"concept": "Sales", "2020": 10}},
	}
	out := Unpivot(table, []string{"2020"})
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "2020", out.Rows[0]["year"])
	assert.InDelta(t, 10.0, out.Rows[0]["amount"].(float64), 1e-9)
}

func TestMergeDebitCredit(t *testing.T) {
	table := &Table{
		Columns: []string{"concepto", "debe", "haber"},
		Rows: []map[string]any{
			{"concepto": "Cobro", "debe": "100", "haber": "0"},
			{"concepto": "Pago", "debe": "0", "haber": "50"},
			{"concepto": "Mixto", "debe": "30,5", "haber": "10"},
		},
	}

	out := MergeDebitCredit(table, "debe", "haber")

	require.Len(t, out.Rows, 3)
	assert.Equal(t, []string{"concepto", "amount"}, out.Columns)
	assert.InDelta(t, 100.0, out.Rows[0]["amount"].(float64), 1e-9)
	assert.InDelta(t, -50.0, out.Rows[1]["amount"].(float64), 1e-9)
	assert.InDelta(t, 20.5, out.Rows[2]["amount"].(float64), 1e-9)
	for _, row := range out.Rows {
		assert.NotContains(t, row, "debe")
		assert.NotContains(t, row, "haber")
	}
}

func TestInvertNegatives(t *testing.T) {
	table := &Table{
		Columns: []string{"concept", "amount"},
		Rows: []map[string]any{
			{"concept": "a", "amount": 100.0},
			{"concept": "b", "amount": -50.0},
			{"concept": "c", "amount": 3},
			{"concept": "d", "amount": "not numeric"},
		},
	}

	out := InvertNegatives(table, "amount")

	assert.InDelta(t, -100.0, out.Rows[0]["amount"].(float64), 1e-9)
	assert.InDelta(t, 50.0, out.Rows[1]["amount"].(float64), 1e-9)
	assert.Equal(t, -3, out.Rows[2]["amount"])
	assert.Equal(t, "not numeric", out.Rows[3]["amount"])

	// The input table is untouched.
	assert.InDelta(t, 100.0, table.Rows[0]["amount"].(float64), 1e-9)
}

func TestRenameByMapping(t *testing.T) {
	table := &Table{
		Columns: []string{"fecha", "importe", "tipo", "nota"},
		Rows: []map[string]any{
			{"fecha": "2024-01-01", "importe": 10.0, "tipo": "venta", "nota": "x"},
		},
	}

	out, renamed := RenameByMapping(table, ColumnMapping{
		Date:     "Fecha",
		Amount:   "importe",
		Category: "tipo",
		Concept:  "missing",
	})

	assert.ElementsMatch(t, []string{"date", "amount", "category"}, renamed)
	assert.Equal(t, []string{"date", "amount", "category", "nota"}, out.Columns)
	assert.Equal(t, "2024-01-01", out.Rows[0]["date"])
	assert.InDelta(t, 10.0, out.Rows[0]["amount"].(float64), 1e-9)
	assert.Equal(t, "venta", out.Rows[0]["category"])
	assert.Equal(t, "x", out.Rows[0]["nota"])
	assert.NotContains(t, out.Rows[0], "fecha")
}

func TestRenameByMappingEmptyMapping(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    []map[string]any{{"a": 1, "b": 2}},
	}
	out, renamed := RenameByMapping(table, ColumnMapping{})
	assert.Empty(t, renamed)
	assert.Equal(t, []string{"a", "b"}, out.Columns)
}
