package reports

import "fmt"

// CashFlowMonth is one month of cash movement with the running balance after
// that month. Outflow is a positive magnitude.
type CashFlowMonth struct {
	Period  string  `json:"period"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net_flow"`
	Balance float64 `json:"running_balance"`
}

// CashFlowReport tracks monthly cash movements and the running balance.
type CashFlowReport struct {
	Months   []CashFlowMonth  `json:"monthly_flow"`
	Summary  CashFlowSummary  `json:"summary"`
	Alerts   []string         `json:"alerts"`
	Analysis CashFlowAnalysis `json:"analysis"`
}

type CashFlowSummary struct {
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`
	TotalFlow      float64 `json:"total_flow"`
	MonthlyAverage float64 `json:"monthly_average"`
	TotalInflows   float64 `json:"total_inflows"`
	TotalOutflows  float64 `json:"total_outflows"`
	MonthCount     int     `json:"months_analyzed"`
}

type CashFlowAnalysis struct {
	PositiveMonths int     `json:"positive_flow_months"`
	NegativeMonths int     `json:"negative_flow_months"`
	BestMonth      string  `json:"best_month"`
	WorstMonth     string  `json:"worst_month"`
	MinBalance     float64 `json:"min_balance"`
	MaxBalance     float64 `json:"max_balance"`
}

// CashFlow builds a cash flow report from transactional rows, carrying the
// running balance forward from initialBalance.
func CashFlow(rows []map[string]any, initialBalance float64) (*CashFlowReport, error) {
	txs, err := extractTransactions(rows)
	if err != nil {
		return nil, err
	}

	buckets := bucketByMonth(txs)
	report := &CashFlowReport{
		Summary: CashFlowSummary{InitialBalance: initialBalance, MonthCount: len(buckets)},
	}

	balance := initialBalance
	negativeFlow, negativeBalance := 0, 0
	best, worst := 0, 0
	for i, b := range buckets {
		balance += b.net
		outflow := -b.outflow
		report.Months = append(report.Months, CashFlowMonth{
			Period:  b.period,
			Inflow:  b.inflow,
			Outflow: outflow,
			Net:     b.net,
			Balance: balance,
		})

		report.Summary.TotalFlow += b.net
		report.Summary.TotalInflows += b.inflow
		report.Summary.TotalOutflows += outflow

		if b.net > 0 {
			report.Analysis.PositiveMonths++
		}
		if b.net < 0 {
			report.Analysis.NegativeMonths++
			negativeFlow++
		}
		if balance < 0 {
			negativeBalance++
		}
		if b.net > buckets[best].net {
			best = i
		}
		if b.net < buckets[worst].net {
			worst = i
		}
		if i == 0 || balance < report.Analysis.MinBalance {
			report.Analysis.MinBalance = balance
		}
		if i == 0 || balance > report.Analysis.MaxBalance {
			report.Analysis.MaxBalance = balance
		}
	}

	report.Summary.FinalBalance = balance
	report.Summary.MonthlyAverage = report.Summary.TotalFlow / float64(len(buckets))
	report.Analysis.BestMonth = buckets[best].period
	report.Analysis.WorstMonth = buckets[worst].period

	report.Alerts = []string{}
	if negativeFlow > 0 {
		report.Alerts = append(report.Alerts,
			fmt.Sprintf("%d months with negative net flow", negativeFlow))
	}
	if negativeBalance > 0 {
		report.Alerts = append(report.Alerts,
			fmt.Sprintf("cash balance goes negative in %d months", negativeBalance))
	}
	return report, nil
}
