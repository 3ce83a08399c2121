package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// FormatKind classifies the layout of a table.
type FormatKind string

const (
	FormatFinancialStatement FormatKind = "financial_statement"
	FormatTransactional      FormatKind = "transactional"
	FormatBudget             FormatKind = "budget"
	FormatUnknown            FormatKind = "unknown"
)

// DetectionResult carries the classified format, the detector's confidence in
// [0,1] and any warnings raised while classifying.
type DetectionResult struct {
	Format     FormatKind
	Confidence float64
	Warnings   []string
}

// Term families recognized in column names, Spanish and English. Matching is
// by substring over the lower-cased column name.
var (
	conceptTerms  = []string{"concepto", "nombre", "concept", "name"}
	dateTerms     = []string{"fecha", "date"}
	amountTerms   = []string{"importe", "monto", "amount", "cantidad"}
	categoryTerms = []string{"categoria", "category", "tipo", "type"}
	budgetTerms   = []string{"presupuesto", "budget", "planeado"}
	actualTerms   = []string{"real", "actual", "ejecutado"}
	debitTerms    = []string{"debe", "debit"}
	creditTerms   = []string{"haber", "credit"}
)

// yearColumnRe matches a bare year or a year with a single letter prefix,
// e.g. "2021" or "a2021".
var yearColumnRe = regexp.MustCompile(`^[A-Za-z]?\d{4}$`)

// YearColumns returns the columns of t that look like year columns, in table
// order.
func YearColumns(t *Table) []string {
	var years []string
	for _, col := range t.Columns {
		if yearColumnRe.MatchString(strings.TrimSpace(col)) {
			years = append(years, strings.TrimSpace(col))
		}
	}
	return years
}

// columnTraits summarizes which term families appear among the column names.
type columnTraits struct {
	hasConcept  bool
	hasDate     bool
	hasAmount   bool
	hasCategory bool
	hasBudget   bool
	hasActual   bool
	hasDebit    bool
	hasCredit   bool
	yearCount   int
}

func traitsOf(t *Table) columnTraits {
	joined := strings.ToLower(strings.Join(t.Columns, " "))
	contains := func(terms []string) bool {
		for _, term := range terms {
			if strings.Contains(joined, term) {
				return true
			}
		}
		return false
	}
	return columnTraits{
		hasConcept:  contains(conceptTerms),
		hasDate:     contains(dateTerms),
		hasAmount:   contains(amountTerms),
		hasCategory: contains(categoryTerms),
		hasBudget:   contains(budgetTerms),
		hasActual:   contains(actualTerms),
		hasDebit:    contains(debitTerms),
		hasCredit:   contains(creditTerms),
		yearCount:   len(YearColumns(t)),
	}
}

// detectionRule pairs a predicate over the column traits with the format and
// confidence it asserts. Rules are evaluated in order; the first match wins.
type detectionRule struct {
	match      func(columnTraits) bool
	format     FormatKind
	confidence float64
	warnings   func(columnTraits) []string
}

var detectionRules = []detectionRule{
	{
		match: func(c columnTraits) bool {
			return c.yearCount >= 2 && c.hasConcept
		},
		format:     FormatFinancialStatement,
		confidence: 0.9,
		warnings: func(c columnTraits) []string {
			if c.yearCount < 3 {
				return []string{fmt.Sprintf("only %d year columns detected, at least 3 years recommended for trend analysis", c.yearCount)}
			}
			return nil
		},
	},
	{
		match: func(c columnTraits) bool {
			return c.hasBudget && c.hasActual && (c.hasCategory || c.hasConcept)
		},
		format:     FormatBudget,
		confidence: 0.95,
	},
	{
		match: func(c columnTraits) bool {
			return c.hasDate && c.hasAmount
		},
		format:     FormatTransactional,
		confidence: 0.85,
		warnings: func(c columnTraits) []string {
			if !c.hasCategory {
				return []string{"no category column detected, analysis will be limited"}
			}
			return nil
		},
	},
	{
		match: func(c columnTraits) bool {
			return c.hasDebit && c.hasCredit
		},
		format:     FormatTransactional,
		confidence: 0.80,
		warnings: func(columnTraits) []string {
			return []string{"debit/credit columns will be converted to a single signed amount column"}
		},
	},
}

// Detect classifies the table against the rule list. Tables matching no rule
// come back as FormatUnknown with zero confidence and a warning.
func Detect(t *Table) DetectionResult {
	traits := traitsOf(t)
	for _, rule := range detectionRules {
		if !rule.match(traits) {
			continue
		}
		res := DetectionResult{Format: rule.format, Confidence: rule.confidence}
		if rule.warnings != nil {
			res.Warnings = rule.warnings(traits)
		}
		return res
	}
	return DetectionResult{
		Format:     FormatUnknown,
		Confidence: 0.0,
		Warnings:   []string{"could not determine data format from column names"},
	}
}
