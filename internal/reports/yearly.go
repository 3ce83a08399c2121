package reports

import (
	"fmt"
	"regexp"
	"sort"

	"finsight/internal/normalize"
)

// YearlyEntry summarizes one year of a financial statement. Expenses are
// reported as a positive magnitude.
type YearlyEntry struct {
	Year      string  `json:"year"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Net       float64 `json:"net"`
	MarginPct float64 `json:"margin_pct"`
}

// YearlyVariation is the change between two consecutive years.
type YearlyVariation struct {
	Period         string  `json:"period"`
	IncomeChange   float64 `json:"income_change"`
	IncomePct      float64 `json:"income_change_pct"`
	ExpensesChange float64 `json:"expenses_change"`
	ExpensesPct    float64 `json:"expenses_change_pct"`
	NetChange      float64 `json:"net_change"`
	NetPct         float64 `json:"net_change_pct"`
}

// ConceptDetail is the per-year breakdown of a single income or expense
// concept.
type ConceptDetail struct {
	Concept  string             `json:"concept"`
	Category string             `json:"category"`
	Values   map[string]float64 `json:"values"`
}

// YearlyReport is the full yearly summary of a financial statement.
type YearlyReport struct {
	Years       []YearlyEntry     `json:"yearly_summary"`
	Variations  []YearlyVariation `json:"variations"`
	TopConcepts []ConceptDetail   `json:"top_concepts"`
	Period      YearlyPeriod      `json:"period"`
	Totals      YearlyTotals      `json:"totals"`
}

type YearlyPeriod struct {
	StartYear  string `json:"start_year"`
	EndYear    string `json:"end_year"`
	TotalYears int    `json:"total_years"`
}

type YearlyTotals struct {
	Income   float64 `json:"accumulated_income"`
	Expenses float64 `json:"accumulated_expenses"`
	Net      float64 `json:"accumulated_net"`
}

var yearDigitsRe = regexp.MustCompile(`\d{4}`)

// conceptColumn finds the concept column by exact name among the known
// synonyms.
func conceptColumn(t *normalize.Table) string {
	for _, name := range []string{"concepto", "nombre", "name", "concept"} {
		if t.HasColumn(name) {
			return name
		}
	}
	return ""
}

// YearlySummary builds a yearly report from wide financial-statement rows
// (one concept column plus one column per year).
func YearlySummary(rows []map[string]any) (*YearlyReport, error) {
	t := normalize.NewTable(rows)
	t.NormalizeColumnNames()

	if format := normalize.Detect(t).Format; format != normalize.FormatFinancialStatement {
		return nil, fmt.Errorf("%w (detected %s)", ErrNotFinancialStatement, format)
	}

	concept := conceptColumn(t)
	if concept == "" {
		return nil, fmt.Errorf("%w: no concept column", ErrMissingColumns)
	}

	yearCols := normalize.YearColumns(t)
	sort.Strings(yearCols)
	if len(yearCols) < 2 {
		return nil, fmt.Errorf("%w: at least 2 year columns required", ErrMissingColumns)
	}

	// Per-year category totals plus the per-concept breakdown.
	type conceptRow struct {
		concept  string
		category string
		values   map[string]float64
	}
	var conceptRows []conceptRow
	categoryTotals := make(map[string]map[string]float64, len(yearCols))
	for _, yc := range yearCols {
		categoryTotals[yc] = make(map[string]float64)
	}

	for _, row := range t.Rows {
		label := fmt.Sprintf("%v", row[concept])
		category := CategorizeConcept(label)
		cr := conceptRow{concept: label, category: category, values: make(map[string]float64, len(yearCols))}
		for _, yc := range yearCols {
			v := normalize.CleanNumeric(row[yc])
			categoryTotals[yc][category] += v
			cr.values[yearDigitsRe.FindString(yc)] = v
		}
		conceptRows = append(conceptRows, cr)
	}

	report := &YearlyReport{}
	for _, yc := range yearCols {
		year := yearDigitsRe.FindString(yc)
		income := categoryTotals[yc][CategoryIncome]
		expenses := abs(categoryTotals[yc][CategoryExpense])
		net := income - expenses
		margin := 0.0
		if income != 0 {
			margin = net / income * 100
		}
		report.Years = append(report.Years, YearlyEntry{
			Year:      year,
			Income:    income,
			Expenses:  expenses,
			Net:       net,
			MarginPct: margin,
		})
	}

	for i := 1; i < len(report.Years); i++ {
		prev, cur := report.Years[i-1], report.Years[i]
		report.Variations = append(report.Variations, YearlyVariation{
			Period:         prev.Year + "-" + cur.Year,
			IncomeChange:   cur.Income - prev.Income,
			IncomePct:      pctOf(cur.Income-prev.Income, prev.Income),
			ExpensesChange: cur.Expenses - prev.Expenses,
			ExpensesPct:    pctOf(cur.Expenses-prev.Expenses, prev.Expenses),
			NetChange:      cur.Net - prev.Net,
			NetPct:         pctOf(cur.Net-prev.Net, prev.Net),
		})
	}

	lastYear := yearDigitsRe.FindString(yearCols[len(yearCols)-1])
	var details []ConceptDetail
	for _, cr := range conceptRows {
		if cr.category != CategoryIncome && cr.category != CategoryExpense {
			continue
		}
		details = append(details, ConceptDetail{Concept: cr.concept, Category: cr.category, Values: cr.values})
	}
	sort.SliceStable(details, func(i, j int) bool {
		return abs(details[i].Values[lastYear]) > abs(details[j].Values[lastYear])
	})
	if len(details) > 10 {
		details = details[:10]
	}
	report.TopConcepts = details

	report.Period = YearlyPeriod{
		StartYear:  report.Years[0].Year,
		EndYear:    report.Years[len(report.Years)-1].Year,
		TotalYears: len(report.Years),
	}
	for _, y := range report.Years {
		report.Totals.Income += y.Income
		report.Totals.Expenses += y.Expenses
		report.Totals.Net += y.Net
	}
	return report, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// pctOf is change as a percentage of base, 0 when the base is zero.
func pctOf(change, base float64) float64 {
	if base == 0 {
		return 0
	}
	return change / base * 100
}
