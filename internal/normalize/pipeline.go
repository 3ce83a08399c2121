package normalize

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// ColumnMapping tells the pipeline which source columns play which roles.
// All fields are optional; empty fields fall back to term-based detection
// where the pipeline supports it. Source names are matched after trim and
// lower-casing.
type ColumnMapping struct {
	Date     string `json:"date_column,omitempty"`
	Amount   string `json:"amount_column,omitempty"`
	Category string `json:"category_column,omitempty"`
	Concept  string `json:"concept_column,omitempty"`
	Debit    string `json:"debit_column,omitempty"`
	Credit   string `json:"credit_column,omitempty"`
	Budget   string `json:"budget_column,omitempty"`
	Actual   string `json:"actual_column,omitempty"`
}

func (m ColumnMapping) normalized(field string) string {
	return strings.ToLower(strings.TrimSpace(field))
}

// Rules switches the optional pipeline stages on and off. The zero value
// disables everything; use DefaultRules for the standard configuration.
type Rules struct {
	Unpivot            bool     `json:"unpivot"`
	UnpivotYearColumns []string `json:"unpivot_year_columns,omitempty"`
	DebitCreditMerge   bool     `json:"debit_credit_merge"`
	InvertNegatives    bool     `json:"invert_negatives"`
	AutoDetectFormat   bool     `json:"auto_detect_format"`
	DropEmptyRows      bool     `json:"drop_empty_rows"`
	DropEmptyColumns   bool     `json:"drop_empty_columns"`
}

// DefaultRules enables format detection and empty-row/column pruning and
// leaves the structural transforms off.
func DefaultRules() Rules {
	return Rules{
		AutoDetectFormat: true,
		DropEmptyRows:    true,
		DropEmptyColumns: true,
	}
}

// Result is the outcome of a pipeline run.
type Result struct {
	Rows                   []map[string]any `json:"normalized_data"`
	Format                 FormatKind       `json:"format_detected"`
	Confidence             float64          `json:"confidence"`
	Warnings               []string         `json:"warnings"`
	TransformationsApplied []string         `json:"transformations_applied"`
	Columns                []string         `json:"columns"`
	RowCount               int              `json:"rows"`
}

// Normalizer runs the normalization pipeline. Safe for concurrent use; every
// run works on its own copy of the data.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer returns a Normalizer logging through the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// Normalize parses the input, applies the configured transformations and
// returns the normalized rows with detection metadata. Structural problems
// with the input return an error wrapping ErrNotTabular; data-quality
// problems become warnings and confidence penalties.
func (n *Normalizer) Normalize(input any, mapping ColumnMapping, rules Rules) (*Result, error) {
	table, err := ParseInput(input)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Format:                 FormatUnknown,
		Warnings:               []string{},
		Columns:                []string{},
		Rows:                   []map[string]any{},
		TransformationsApplied: []string{},
	}

	table.NormalizeColumnNames()
	res.TransformationsApplied = append(res.TransformationsApplied, "normalize_column_names")

	if rules.DropEmptyRows {
		if removed := table.DropEmptyRows(); removed > 0 {
			res.TransformationsApplied = append(res.TransformationsApplied,
				fmt.Sprintf("drop_empty_rows (%d)", removed))
			n.logger.Debug("dropped empty rows", slog.Int("count", removed))
		}
	}
	if rules.DropEmptyColumns {
		if removed := table.DropEmptyColumns(); removed > 0 {
			res.TransformationsApplied = append(res.TransformationsApplied,
				fmt.Sprintf("drop_empty_columns (%d)", removed))
			n.logger.Debug("dropped empty columns", slog.Int("count", removed))
		}
	}

	if rules.AutoDetectFormat {
		detection := Detect(table)
		res.Format = detection.Format
		res.Confidence = detection.Confidence
		res.Warnings = append(res.Warnings, detection.Warnings...)
		n.logger.Info("format detected",
			slog.String("format", string(detection.Format)),
			slog.Float64("confidence", detection.Confidence))
	}

	if rules.DebitCreditMerge {
		table = n.mergeDebitCredit(table, mapping, res)
	}

	if rules.Unpivot {
		table = n.unpivot(table, mapping, rules, res)
	}

	if rules.InvertNegatives {
		amountCol := mapping.normalized(mapping.Amount)
		if amountCol == "" {
			amountCol = ColumnAmount
		}
		if table.HasColumn(amountCol) {
			table = InvertNegatives(table, amountCol)
			res.TransformationsApplied = append(res.TransformationsApplied, "invert_negatives")
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("invert_negatives requested but column %q not found", amountCol))
		}
	}

	table, renamed := RenameByMapping(table, mapping)
	if len(renamed) > 0 {
		res.TransformationsApplied = append(res.TransformationsApplied,
			"rename_by_mapping ("+strings.Join(renamed, ", ")+")")
		n.logger.Debug("renamed mapped columns", slog.Any("roles", renamed))
	}

	n.validate(table, res)

	res.Rows = table.Rows
	res.Columns = table.Columns
	res.RowCount = len(table.Rows)
	res.Confidence = math.Round(res.Confidence*100) / 100
	return res, nil
}

func (n *Normalizer) mergeDebitCredit(table *Table, mapping ColumnMapping, res *Result) *Table {
	debitCol := mapping.normalized(mapping.Debit)
	creditCol := mapping.normalized(mapping.Credit)
	if debitCol == "" || creditCol == "" || !table.HasColumn(debitCol) || !table.HasColumn(creditCol) {
		res.Warnings = append(res.Warnings,
			"debit/credit merge requested but columns not found")
		return table
	}
	out := MergeDebitCredit(table, debitCol, creditCol)
	res.TransformationsApplied = append(res.TransformationsApplied, "debit_credit_merge")
	return out
}

func (n *Normalizer) unpivot(table *Table, mapping ColumnMapping, rules Rules, res *Result) *Table {
	yearCols := make([]string, 0, len(rules.UnpivotYearColumns))
	for _, col := range rules.UnpivotYearColumns {
		col = strings.ToLower(strings.TrimSpace(col))
		if table.HasColumn(col) {
			yearCols = append(yearCols, col)
		}
	}
	if len(yearCols) == 0 {
		yearCols = YearColumns(table)
	}
	if len(yearCols) == 0 {
		res.Warnings = append(res.Warnings, "unpivot requested but no year columns found")
		return table
	}
	if concept := n.resolveColumn(table, mapping.Concept, conceptTerms); concept == "" {
		res.Warnings = append(res.Warnings, "unpivot requested but no concept column found")
		return table
	}
	out := Unpivot(table, yearCols)
	res.TransformationsApplied = append(res.TransformationsApplied,
		fmt.Sprintf("unpivot (%d year columns)", len(yearCols)))
	// Long form is transaction shaped regardless of the wide-form detection.
	res.Format = FormatTransactional
	return out
}

// resolveColumn finds a concrete column for a role: the mapped name when it
// resolves, otherwise the first column containing one of the role's terms.
func (n *Normalizer) resolveColumn(table *Table, mapped string, terms []string) string {
	if m := strings.ToLower(strings.TrimSpace(mapped)); m != "" && table.HasColumn(m) {
		return m
	}
	for _, col := range table.Columns {
		for _, term := range terms {
			if strings.Contains(col, term) {
				return col
			}
		}
	}
	return ""
}

// validate applies shape checks for the detected format, reducing confidence
// for each missing canonical column.
func (n *Normalizer) validate(table *Table, res *Result) {
	switch res.Format {
	case FormatTransactional:
		if !table.HasColumn(ColumnDate) {
			res.Warnings = append(res.Warnings, "transactional data is missing a date column")
			res.Confidence *= 0.7
		}
		if !table.HasColumn(ColumnAmount) {
			res.Warnings = append(res.Warnings, "transactional data is missing an amount column")
			res.Confidence *= 0.7
		}
	case FormatFinancialStatement:
		if !table.HasColumn(ColumnConcept) {
			res.Warnings = append(res.Warnings, "financial statement is missing a concept column")
			res.Confidence *= 0.8
		}
	}
}
