package reports

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"finsight/internal/normalize"
)

// Sentinel errors returned when input data does not fit the requested report.
var (
	ErrNotFinancialStatement = errors.New("data is not in financial statement format")
	ErrNotTransactional      = errors.New("data is not in transactional format")
	ErrMissingColumns        = errors.New("required columns not found")
	ErrNoData                = errors.New("no usable rows after cleaning")
)

// dateLayouts are tried in order when coercing date cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"2006-01",
}

func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// parseStrictFloat coerces a cell to float64, rejecting cells that are not
// plainly numeric. Locale-ambiguous strings should already have been cleaned
// by the normalization pipeline.
func parseStrictFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// transaction is a dated, signed amount extracted from a table row.
type transaction struct {
	date   time.Time
	amount float64
}

// resolveTransactionColumns finds the date and amount columns by term search,
// mirroring how the detector recognizes transactional data.
func resolveTransactionColumns(t *normalize.Table) (dateCol, amountCol string, err error) {
	for _, col := range t.Columns {
		if dateCol == "" && (strings.Contains(col, "fecha") || strings.Contains(col, "date")) {
			dateCol = col
		}
		if amountCol == "" && containsAny(col, "importe", "monto", "amount", "cantidad") {
			amountCol = col
		}
	}
	if dateCol == "" || amountCol == "" {
		return "", "", fmt.Errorf("%w: date or amount column missing (columns: %s)",
			ErrMissingColumns, strings.Join(t.Columns, ", "))
	}
	return dateCol, amountCol, nil
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// extractTransactions normalizes the table, rejects financial-statement
// shaped input and returns the valid dated amounts in input order. Rows with
// unparseable dates or amounts are dropped.
func extractTransactions(rows []map[string]any) ([]transaction, error) {
	t := normalize.NewTable(rows)
	t.NormalizeColumnNames()

	if normalize.Detect(t).Format == normalize.FormatFinancialStatement {
		return nil, ErrNotTransactional
	}

	dateCol, amountCol, err := resolveTransactionColumns(t)
	if err != nil {
		return nil, err
	}

	var txs []transaction
	for _, row := range t.Rows {
		date, ok := parseDate(row[dateCol])
		if !ok {
			continue
		}
		amount, ok := parseStrictFloat(row[amountCol])
		if !ok {
			continue
		}
		txs = append(txs, transaction{date: date, amount: amount})
	}
	if len(txs) == 0 {
		return nil, ErrNoData
	}
	return txs, nil
}

// monthBucket aggregates the transactions of one calendar month.
type monthBucket struct {
	period  string
	inflow  float64
	outflow float64
	net     float64
	minDate time.Time
	maxDate time.Time
}

// bucketByMonth groups transactions into YYYY-MM buckets sorted by period.
// inflow sums positive amounts, outflow sums negative amounts keeping their
// sign.
func bucketByMonth(txs []transaction) []monthBucket {
	byPeriod := make(map[string]*monthBucket)
	for _, tx := range txs {
		period := tx.date.Format("2006-01")
		b, ok := byPeriod[period]
		if !ok {
			b = &monthBucket{period: period, minDate: tx.date, maxDate: tx.date}
			byPeriod[period] = b
		}
		if tx.amount > 0 {
			b.inflow += tx.amount
		} else if tx.amount < 0 {
			b.outflow += tx.amount
		}
		b.net += tx.amount
		if tx.date.Before(b.minDate) {
			b.minDate = tx.date
		}
		if tx.date.After(b.maxDate) {
			b.maxDate = tx.date
		}
	}

	buckets := make([]monthBucket, 0, len(byPeriod))
	for _, b := range byPeriod {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].period < buckets[j].period })
	return buckets
}

// dateRange returns the earliest and latest transaction dates.
func dateRange(txs []transaction) (min, max time.Time) {
	min, max = txs[0].date, txs[0].date
	for _, tx := range txs[1:] {
		if tx.date.Before(min) {
			min = tx.date
		}
		if tx.date.After(max) {
			max = tx.date
		}
	}
	return min, max
}
