package normalize

import (
	"strings"
)

// Canonical column names produced by the transformations.
const (
	ColumnDate     = "date"
	ColumnAmount   = "amount"
	ColumnCategory = "category"
	ColumnConcept  = "concept"
	ColumnYear     = "year"
	ColumnBudget   = "budget"
	ColumnActual   = "actual"
)

// Unpivot melts wide year columns into long (year, amount) rows. Every
// non-year column is carried along as an identifier; each input row yields
// one output row per year column. Year values are the column name with any
// leading non-digit prefix stripped, amounts pass through CleanNumeric.
func Unpivot(t *Table, yearCols []string) *Table {
	isYear := make(map[string]bool, len(yearCols))
	for _, col := range yearCols {
		isYear[col] = true
	}
	var idCols []string
	for _, col := range t.Columns {
		if !isYear[col] {
			idCols = append(idCols, col)
		}
	}

	out := &Table{Columns: append(append([]string(nil), idCols...), ColumnYear, ColumnAmount)}
	out.Rows = make([]map[string]any, 0, len(t.Rows)*len(yearCols))
	for _, row := range t.Rows {
		for _, yearCol := range yearCols {
			melted := make(map[string]any, len(idCols)+2)
			for _, col := range idCols {
				melted[col] = row[col]
			}
			melted[ColumnYear] = yearValue(yearCol)
			melted[ColumnAmount] = CleanNumeric(row[yearCol])
			out.Rows = append(out.Rows, melted)
		}
	}
	return out
}

// yearValue strips a leading non-digit prefix, turning "a2021" into "2021".
func yearValue(col string) string {
	return strings.TrimLeftFunc(col, func(r rune) bool {
		return r < '0' || r > '9'
	})
}

// MergeDebitCredit collapses a debit and a credit column into one signed
// amount column (debit minus credit). The source columns are dropped.
func MergeDebitCredit(t *Table, debitCol, creditCol string) *Table {
	out := &Table{}
	for _, col := range t.Columns {
		if col == debitCol || col == creditCol {
			continue
		}
		out.Columns = append(out.Columns, col)
	}
	out.Columns = append(out.Columns, ColumnAmount)

	out.Rows = make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		merged := make(map[string]any, len(out.Columns))
		for _, col := range out.Columns[:len(out.Columns)-1] {
			merged[col] = row[col]
		}
		merged[ColumnAmount] = CleanNumeric(row[debitCol]) - CleanNumeric(row[creditCol])
		out.Rows = append(out.Rows, merged)
	}
	return out
}

// InvertNegatives flips the sign of every numeric cell in the given column,
// for sources that record expenses as positive numbers. Non-numeric cells
// pass through unchanged.
func InvertNegatives(t *Table, amountCol string) *Table {
	out := t.Clone()
	for _, row := range out.Rows {
		switch v := row[amountCol].(type) {
		case float64:
			row[amountCol] = -v
		case float32:
			row[amountCol] = -float64(v)
		case int:
			row[amountCol] = -v
		case int64:
			row[amountCol] = -v
		}
	}
	return out
}

// RenameByMapping renames mapped source columns to the four canonical role
// names date, amount, category and concept. Source names are matched after
// trim and lower-casing, the same normalization column names go through.
// Returns the new table and the list of roles actually renamed.
func RenameByMapping(t *Table, mapping ColumnMapping) (*Table, []string) {
	targets := map[string]string{}
	add := func(source, role string) {
		source = strings.ToLower(strings.TrimSpace(source))
		if source == "" || source == role {
			return
		}
		targets[source] = role
	}
	add(mapping.Date, ColumnDate)
	add(mapping.Amount, ColumnAmount)
	add(mapping.Category, ColumnCategory)
	add(mapping.Concept, ColumnConcept)

	out := t.Clone()
	var renamed []string
	for i, col := range out.Columns {
		role, ok := targets[col]
		if !ok || out.HasColumn(role) {
			continue
		}
		out.Columns[i] = role
		for _, row := range out.Rows {
			if v, present := row[col]; present {
				row[role] = v
				delete(row, col)
			}
		}
		renamed = append(renamed, role)
	}
	return out, renamed
}
