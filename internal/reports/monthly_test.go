package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionRows() []map[string]any {
	return []map[string]any{
		{"Fecha": "2024-01-05", "Importe": 1000.0, "Categoria": "ventas"},
		{"Fecha": "2024-01-20", "Importe": -300.0, "Categoria": "alquiler"},
		{"Fecha": "2024-02-10", "Importe": 500.0, "Categoria": "ventas"},
		{"Fecha": "2024-02-15", "Importe": -800.0, "Categoria": "nominas"},
		{"Fecha": "not a date", "Importe": 999.0, "Categoria": "ruido"},
	}
}

func TestMonthlySummary(t *testing.T) {
	report, err := MonthlySummary(transactionRows())
	require.NoError(t, err)

	require.Len(t, report.Months, 2)
	jan, feb := report.Months[0], report.Months[1]

	assert.Equal(t, "2024-01", jan.Period)
	assert.InDelta(t, 1000.0, jan.Income, 1e-9)
	assert.InDelta(t, -300.0, jan.Expenses, 1e-9)
	assert.InDelta(t, 700.0, jan.Net, 1e-9)

	assert.Equal(t, "2024-02", feb.Period)
	assert.InDelta(t, 500.0, feb.Income, 1e-9)
	assert.InDelta(t, -800.0, feb.Expenses, 1e-9)
	assert.InDelta(t, -300.0, feb.Net, 1e-9)

	assert.InDelta(t, 1500.0, report.Totals.Income, 1e-9)
	assert.InDelta(t, -1100.0, report.Totals.Expenses, 1e-9)
	assert.InDelta(t, 400.0, report.Totals.Net, 1e-9)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, "2024-01-05", report.StartDate)
	assert.Equal(t, "2024-02-15", report.EndDate)
}

func TestMonthlySummaryRejectsStatement(t *testing.T) {
	_, err := MonthlySummary(statementRows())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTransactional)
}

func TestMonthlySummaryMissingColumns(t *testing.T) {
	rows := []map[string]any{{"x": 1, "y": 2}}
	_, err := MonthlySummary(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestMonthlySummaryNoUsableRows(t *testing.T) {
	rows := []map[string]any{
		{"fecha": "garbage", "importe": "also garbage"},
	}
	_, err := MonthlySummary(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}
