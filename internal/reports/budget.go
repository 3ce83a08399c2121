package reports

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"finsight/internal/normalize"
)

// Variance severity levels keyed off the absolute percentage deviation.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// BudgetLine is the variance analysis of a single category.
type BudgetLine struct {
	Category    string    `json:"category"`
	Budget      float64   `json:"budget"`
	Actual      float64   `json:"actual"`
	Difference  float64   `json:"difference"`
	VariancePct JSONFloat `json:"variance_pct"`
	Severity    string    `json:"severity"`
	Explanation string    `json:"explanation"`
}

// BudgetVarianceReport compares budgeted against actual figures per category.
type BudgetVarianceReport struct {
	Variances []BudgetLine  `json:"variances"`
	Summary   BudgetSummary `json:"summary"`
	Alerts    BudgetAlerts  `json:"alerts"`
}

type BudgetSummary struct {
	TotalBudget    float64   `json:"total_budget"`
	TotalActual    float64   `json:"total_actual"`
	TotalDiff      float64   `json:"total_difference"`
	TotalPct       JSONFloat `json:"total_variance_pct"`
	CategoryCount int       `json:"categories_analyzed"`
}

type BudgetAlerts struct {
	HighVariances int `json:"high_variances"`
	Overruns      int `json:"overruns"`
	Savings       int `json:"savings"`
}

// BudgetVariance analyzes budget vs. actual rows. Requires a category (or
// concept) column, a budget column and an actual column, matched by term
// search over the normalized column names.
func BudgetVariance(rows []map[string]any) (*BudgetVarianceReport, error) {
	t := normalize.NewTable(rows)
	t.NormalizeColumnNames()

	var catCol, budgetCol, actualCol string
	for _, col := range t.Columns {
		if catCol == "" && containsAny(col, "categoria", "category", "concepto", "concept") {
			catCol = col
		}
		if budgetCol == "" && containsAny(col, "presupuesto", "budget", "planeado") {
			budgetCol = col
		}
		if actualCol == "" && containsAny(col, "real", "actual", "ejecutado") {
			actualCol = col
		}
	}
	if catCol == "" || budgetCol == "" || actualCol == "" {
		return nil, fmt.Errorf("%w: need category, budget and actual columns (columns: %s)",
			ErrMissingColumns, strings.Join(t.Columns, ", "))
	}

	report := &BudgetVarianceReport{}
	var totalAbsBudget float64
	for _, row := range t.Rows {
		budget, okB := parseStrictFloat(row[budgetCol])
		actual, okA := parseStrictFloat(row[actualCol])
		if !okB || !okA {
			continue
		}
		category := fmt.Sprintf("%v", row[catCol])
		diff := actual - budget
		pct := diff / math.Abs(budget) * 100

		line := BudgetLine{
			Category:    category,
			Budget:      budget,
			Actual:      actual,
			Difference:  diff,
			VariancePct: JSONFloat(pct),
			Severity:    severityOf(pct),
			Explanation: explainVariance(category, budget, actual, diff, pct),
		}
		report.Variances = append(report.Variances, line)

		report.Summary.TotalBudget += budget
		report.Summary.TotalActual += actual
		report.Summary.TotalDiff += diff
		totalAbsBudget += math.Abs(budget)

		if line.Severity == SeverityHigh {
			report.Alerts.HighVariances++
		}
		if diff > 0 && budget > 0 {
			report.Alerts.Overruns++
		}
		if diff < 0 && budget > 0 {
			report.Alerts.Savings++
		}
	}
	if len(report.Variances) == 0 {
		return nil, ErrNoData
	}

	sort.SliceStable(report.Variances, func(i, j int) bool {
		return math.Abs(float64(report.Variances[i].VariancePct)) >
			math.Abs(float64(report.Variances[j].VariancePct))
	})

	report.Summary.TotalPct = JSONFloat(report.Summary.TotalDiff / totalAbsBudget * 100)
	report.Summary.CategoryCount = len(report.Variances)
	return report, nil
}

func severityOf(pct float64) string {
	switch {
	case math.Abs(pct) > 20:
		return SeverityHigh
	case math.Abs(pct) > 10:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func explainVariance(category string, budget, actual, diff, pct float64) string {
	var direction, label string
	if diff >= 0 {
		direction = "exceeded budget"
		if budget > 0 {
			label = "Overrun"
		} else {
			label = "Higher income"
		}
	} else {
		direction = "came in under budget"
		if budget > 0 {
			label = "Saving"
		} else {
			label = "Lower income"
		}
	}
	return fmt.Sprintf("%s: budget %.2f, actual %.2f, %s by %.2f (%+.1f%%). %s.",
		category, budget, actual, direction, math.Abs(diff), pct, label)
}
