package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashFlow(t *testing.T) {
	report, err := CashFlow(transactionRows(), 100.0)
	require.NoError(t, err)

	require.Len(t, report.Months, 2)
	jan, feb := report.Months[0], report.Months[1]

	assert.Equal(t, "2024-01", jan.Period)
	assert.InDelta(t, 1000.0, jan.Inflow, 1e-9)
	assert.InDelta(t, 300.0, jan.Outflow, 1e-9)
	assert.InDelta(t, 700.0, jan.Net, 1e-9)
	assert.InDelta(t, 800.0, jan.Balance, 1e-9)

	assert.InDelta(t, -300.0, feb.Net, 1e-9)
	assert.InDelta(t, 500.0, feb.Balance, 1e-9)

	assert.InDelta(t, 100.0, report.Summary.InitialBalance, 1e-9)
	assert.InDelta(t, 500.0, report.Summary.FinalBalance, 1e-9)
	assert.InDelta(t, 400.0, report.Summary.TotalFlow, 1e-9)
	assert.InDelta(t, 200.0, report.Summary.MonthlyAverage, 1e-9)
	assert.InDelta(t, 1500.0, report.Summary.TotalInflows, 1e-9)
	assert.InDelta(t, 1100.0, report.Summary.TotalOutflows, 1e-9)
	assert.Equal(t, 2, report.Summary.MonthCount)

	assert.Equal(t, 1, report.Analysis.PositiveMonths)
	assert.Equal(t, 1, report.Analysis.NegativeMonths)
	assert.Equal(t, "2024-01", report.Analysis.BestMonth)
	assert.Equal(t, "2024-02", report.Analysis.WorstMonth)
	assert.InDelta(t, 500.0, report.Analysis.MinBalance, 1e-9)
	assert.InDelta(t, 800.0, report.Analysis.MaxBalance, 1e-9)

	require.Len(t, report.Alerts, 1)
	assert.Contains(t, report.Alerts[0], "negative net flow")
}

func TestCashFlowNegativeBalanceAlert(t *testing.T) {
	rows := []map[string]any{
		{"fecha": "2024-01-10", "importe": -500.0},
		{"fecha": "2024-02-10", "importe": 200.0},
	}
	report, err := CashFlow(rows, 100.0)
	require.NoError(t, err)

	// Balance: 100 - 500 = -400, then -200.
	assert.InDelta(t, -400.0, report.Months[0].Balance, 1e-9)
	assert.InDelta(t, -200.0, report.Months[1].Balance, 1e-9)
	require.Len(t, report.Alerts, 2)
	assert.Contains(t, report.Alerts[1], "goes negative in 2 months")
}

func TestCashFlowRejectsStatement(t *testing.T) {
	_, err := CashFlow(statementRows(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTransactional)
}
