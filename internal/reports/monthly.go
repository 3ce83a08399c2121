package reports

// MonthlyEntry summarizes one calendar month of transactions. Expenses keep
// their negative sign.
type MonthlyEntry struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// MonthlyReport is the per-month summary of transactional data.
type MonthlyReport struct {
	Months    []MonthlyEntry `json:"monthly_summary"`
	Totals    MonthlyTotals  `json:"totals"`
	Count     int            `json:"months_analyzed"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
}

type MonthlyTotals struct {
	Income   float64 `json:"total_income"`
	Expenses float64 `json:"total_expenses"`
	Net      float64 `json:"net_result"`
}

// MonthlySummary aggregates transactional rows into per-month income,
// expenses and net result.
func MonthlySummary(rows []map[string]any) (*MonthlyReport, error) {
	txs, err := extractTransactions(rows)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{}
	for _, b := range bucketByMonth(txs) {
		report.Months = append(report.Months, MonthlyEntry{
			Period:   b.period,
			Income:   b.inflow,
			Expenses: b.outflow,
			Net:      b.net,
		})
		report.Totals.Income += b.inflow
		report.Totals.Expenses += b.outflow
		report.Totals.Net += b.net
	}
	report.Count = len(report.Months)

	min, max := dateRange(txs)
	report.StartDate = min.Format("2006-01-02")
	report.EndDate = max.Format("2006-01-02")
	return report, nil
}
