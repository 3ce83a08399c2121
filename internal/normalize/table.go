package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotTabular is returned when the input cannot be interpreted as a table.
// This is the only hard failure the normalization engine produces; every
// data-quality problem surfaces as a warning instead.
var ErrNotTabular = errors.New("input is not tabular")

// Table holds rows as column-name -> cell maps plus an ordered column list.
// After NormalizeColumnNames all rows share the same effective column set.
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// NewTable builds a table from row maps, deriving the column order from the
// first occurrence of each column across the rows. The row slice is copied
// so later table operations never disturb the caller's slice.
func NewTable(rows []map[string]any) *Table {
	t := &Table{Rows: append([]map[string]any(nil), rows...)}
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
		}
	}
	// Map iteration order is random; keep the column list deterministic.
	sortWithinRow(t.Columns, rows)
	return t
}

// sortWithinRow orders cols so that columns discovered in the same row keep a
// stable lexical order among themselves. Row maps carry no ordering of their
// own, so this is the closest deterministic approximation.
func sortWithinRow(cols []string, rows []map[string]any) {
	rank := make(map[string]int, len(cols))
	for _, row := range rows {
		group := make([]string, 0, len(row))
		for col := range row {
			if _, ok := rank[col]; !ok {
				group = append(group, col)
			}
		}
		sortStrings(group)
		for _, col := range group {
			rank[col] = len(rank)
		}
	}
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && rank[cols[j]] < rank[cols[j-1]]; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// NewTableFromHeadersRows builds a table from a {headers, rows} pair, where
// each row is a positional slice of cells. Short rows are padded with nil.
func NewTableFromHeadersRows(headers []string, rows [][]any) *Table {
	t := &Table{Columns: append([]string(nil), headers...)}
	for _, raw := range rows {
		row := make(map[string]any, len(headers))
		for i, col := range headers {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ParseInput converts loosely typed input (as decoded from JSON) into a
// Table. Two shapes are accepted: a list of row maps, or a map carrying
// "headers" and "rows" keys. Anything else is ErrNotTabular.
func ParseInput(input any) (*Table, error) {
	switch v := input.(type) {
	case nil:
		return nil, fmt.Errorf("%w: input is null", ErrNotTabular)
	case []map[string]any:
		return NewTable(v), nil
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for i, item := range v {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is not an object", ErrNotTabular, i)
			}
			rows = append(rows, row)
		}
		return NewTable(rows), nil
	case map[string]any:
		headersRaw, hasHeaders := v["headers"]
		rowsRaw, hasRows := v["rows"]
		if !hasHeaders || !hasRows {
			return nil, fmt.Errorf("%w: object input requires headers and rows", ErrNotTabular)
		}
		headers, err := toStringSlice(headersRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotTabular, err)
		}
		rowList, ok := rowsRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: rows must be a list", ErrNotTabular)
		}
		rows := make([][]any, 0, len(rowList))
		for i, item := range rowList {
			cells, ok := item.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: row %d is not a list of cells", ErrNotTabular, i)
			}
			rows = append(rows, cells)
		}
		return NewTableFromHeadersRows(headers, rows), nil
	default:
		return nil, fmt.Errorf("%w: unsupported input type %T", ErrNotTabular, input)
	}
}

func toStringSlice(v any) ([]string, error) {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), nil
	case []any:
		out := make([]string, 0, len(s))
		for i, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("header %d is not a string", i)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("headers must be a list of strings")
	}
}

// NormalizeColumnNames trims and lower-cases every column name. When two
// source columns collapse to the same normalized name the first one wins.
func (t *Table) NormalizeColumnNames() {
	renamed := make([]string, 0, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	canonical := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		norm := strings.ToLower(strings.TrimSpace(col))
		canonical[col] = norm
		if !seen[norm] {
			seen[norm] = true
			renamed = append(renamed, norm)
		}
	}
	for i, row := range t.Rows {
		out := make(map[string]any, len(row))
		for _, col := range t.Columns {
			norm := canonical[col]
			if _, taken := out[norm]; taken {
				continue
			}
			out[norm] = row[col]
		}
		t.Rows[i] = out
	}
	t.Columns = renamed
}

// HasColumn reports whether the table carries the given column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table so transformations never alias the
// caller's rows.
func (t *Table) Clone() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// isEmptyCell reports whether a cell counts as empty for pruning purposes.
func isEmptyCell(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(c) == ""
	default:
		return false
	}
}

// DropEmptyRows removes rows whose every cell is empty and returns the count
// removed. Applying it twice yields the same table as applying it once.
func (t *Table) DropEmptyRows() int {
	kept := t.Rows[:0]
	removed := 0
	for _, row := range t.Rows {
		empty := true
		for _, col := range t.Columns {
			if !isEmptyCell(row[col]) {
				empty = false
				break
			}
		}
		if empty {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
	return removed
}

// DropEmptyColumns removes columns whose every cell is empty and returns the
// count removed. Idempotent for the same reason DropEmptyRows is.
func (t *Table) DropEmptyColumns() int {
	var keep []string
	var dropped []string
	for _, col := range t.Columns {
		empty := true
		for _, row := range t.Rows {
			if !isEmptyCell(row[col]) {
				empty = false
				break
			}
		}
		// A column with no rows at all is kept; there is nothing to prune.
		if empty && len(t.Rows) > 0 {
			dropped = append(dropped, col)
			continue
		}
		keep = append(keep, col)
	}
	if len(dropped) == 0 {
		return 0
	}
	t.Columns = keep
	for _, row := range t.Rows {
		for _, col := range dropped {
			delete(row, col)
		}
	}
	return len(dropped)
}
