package normalize

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNormalizeEndToEndUnpivot(t *testing.T) {
	input := []any{
		map[string]any{"Concepto": "Ventas", "a2020": "1.000,00", "a2021": "1.500,00"},
	}
	rules := DefaultRules()
	rules.Unpivot = true
	rules.UnpivotYearColumns = []string{"a2020", "a2021"}
	mapping := ColumnMapping{Concept: "concepto"}

	res, err := testNormalizer().Normalize(input, mapping, rules)
	require.NoError(t, err)

	assert.Equal(t, FormatTransactional, res.Format)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2, res.RowCount)
	assert.Contains(t, res.Columns, "concept")
	assert.Contains(t, res.Columns, "year")
	assert.Contains(t, res.Columns, "amount")

	assert.Equal(t, "Ventas", res.Rows[0]["concept"])
	assert.Equal(t, "2020", res.Rows[0]["year"])
	assert.InDelta(t, 1000.0, res.Rows[0]["amount"].(float64), 1e-9)
	assert.Equal(t, "2021", res.Rows[1]["year"])
	assert.InDelta(t, 1500.0, res.Rows[1]["amount"].(float64), 1e-9)
}

func TestNormalizeNonTabularInput(t *testing.T) {
	_, err := testNormalizer().Normalize("not a table", ColumnMapping{}, DefaultRules())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotTabular)
}

func TestNormalizeDetectsTransactional(t *testing.T) {
	input := []any{
		map[string]any{"Fecha": "2024-01-01", "Importe": "100", "Categoria": "ventas"},
		map[string]any{"Fecha": "2024-01-02", "Importe": "-50", "Categoria": "gastos"},
	}
	mapping := ColumnMapping{Date: "fecha", Amount: "importe", Category: "categoria"}

	res, err := testNormalizer().Normalize(input, mapping, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, FormatTransactional, res.Format)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	assert.Empty(t, res.Warnings)
	assert.ElementsMatch(t, []string{"date", "amount", "category"}, res.Columns)
}

func TestNormalizeDebitCreditMerge(t *testing.T) {
	input := []any{
		map[string]any{"Concepto": "Cobro", "Debe": "100", "Haber": "0"},
		map[string]any{"Concepto": "Pago", "Debe": "0", "Haber": "50"},
	}
	rules := DefaultRules()
	rules.DebitCreditMerge = true
	mapping := ColumnMapping{Debit: "debe", Credit: "haber"}

	res, err := testNormalizer().Normalize(input, mapping, rules)
	require.NoError(t, err)

	assert.Contains(t, res.TransformationsApplied, "debit_credit_merge")
	require.Len(t, res.Rows, 2)
	assert.InDelta(t, 100.0, res.Rows[0]["amount"].(float64), 1e-9)
	assert.InDelta(t, -50.0, res.Rows[1]["amount"].(float64), 1e-9)
	assert.NotContains(t, res.Columns, "debe")
	assert.NotContains(t, res.Columns, "haber")
}

func TestNormalizeDebitCreditMergeMissingColumns(t *testing.T) {
	input := []any{map[string]any{"Fecha": "2024-01-01", "Importe": "1"}}
	rules := DefaultRules()
	rules.DebitCreditMerge = true

	res, err := testNormalizer().Normalize(input, ColumnMapping{}, rules)
	require.NoError(t, err)

	assert.NotContains(t, res.TransformationsApplied, "debit_credit_merge")
	assert.Contains(t, res.Warnings, "debit/credit merge requested but columns not found")
}

func TestNormalizeUnpivotWithoutConceptSkips(t *testing.T) {
	input := []any{
		map[string]any{"x": "a", "a2020": "1", "a2021": "2"},
	}
	rules := DefaultRules()
	rules.Unpivot = true

	res, err := testNormalizer().Normalize(input, ColumnMapping{}, rules)
	require.NoError(t, err)

	assert.Contains(t, res.Warnings, "unpivot requested but no concept column found")
	// Table keeps its wide shape.
	assert.Contains(t, res.Columns, "a2020")
	assert.NotContains(t, res.Columns, "year")
}

func TestNormalizeInvertNegatives(t *testing.T) {
	input := []any{
		map[string]any{"fecha": "2024-01-01", "amount": 100.0},
		map[string]any{"fecha": "2024-01-02", "amount": -25.0},
	}
	rules := DefaultRules()
	rules.InvertNegatives = true

	res, err := testNormalizer().Normalize(input, ColumnMapping{}, rules)
	require.NoError(t, err)

	assert.Contains(t, res.TransformationsApplied, "invert_negatives")
	assert.InDelta(t, -100.0, res.Rows[0]["amount"].(float64), 1e-9)
	assert.InDelta(t, 25.0, res.Rows[1]["amount"].(float64), 1e-9)
}

func TestNormalizeDropsEmptyRowsAndColumns(t *testing.T) {
	input := []any{
		map[string]any{"fecha": "2024-01-01", "importe": "10", "vacia": ""},
		map[string]any{"fecha": "", "importe": "", "vacia": nil},
	}

	res, err := testNormalizer().Normalize(input, ColumnMapping{}, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, 1, res.RowCount)
	assert.NotContains(t, res.Columns, "vacia")
	assert.Contains(t, res.TransformationsApplied, "drop_empty_rows (1)")
	assert.Contains(t, res.TransformationsApplied, "drop_empty_columns (1)")
}

func TestNormalizeConfidencePenalties(t *testing.T) {
	t.Run("transactional missing canonical columns", func(t *testing.T) {
		// Detected transactional via fecha+importe but no mapping, so the
		// canonical date and amount columns never materialize.
		input := []any{map[string]any{"fecha": "2024-01-01", "importe": "10", "categoria": "x"}}

		res, err := testNormalizer().Normalize(input, ColumnMapping{}, DefaultRules())
		require.NoError(t, err)

		// 0.85 * 0.7 * 0.7 rounded to 2 decimals.
		assert.InDelta(t, 0.42, res.Confidence, 1e-9)
		assert.Len(t, res.Warnings, 2)
	})

	t.Run("financial statement missing concept", func(t *testing.T) {
		input := []any{map[string]any{"nombre": "Ventas", "a2020": "1", "a2021": "2", "a2022": "3"}}

		res, err := testNormalizer().Normalize(input, ColumnMapping{}, DefaultRules())
		require.NoError(t, err)

		assert.Equal(t, FormatFinancialStatement, res.Format)
		// 0.9 * 0.8
		assert.InDelta(t, 0.72, res.Confidence, 1e-9)
	})
}

func TestNormalizeRulesDisabled(t *testing.T) {
	input := []any{
		map[string]any{"Fecha": "2024-01-01", "Importe": "10"},
		map[string]any{"Fecha": "", "Importe": ""},
	}

	res, err := testNormalizer().Normalize(input, ColumnMapping{}, Rules{})
	require.NoError(t, err)

	// Column names are always normalized; nothing else runs.
	assert.Equal(t, FormatUnknown, res.Format)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, []string{"fecha", "importe"}, res.Columns)
	assert.Equal(t, []string{"normalize_column_names"}, res.TransformationsApplied)
}

func TestNormalizeHeadersRowsShape(t *testing.T) {
	input := map[string]any{
		"headers": []any{"Fecha", "Importe"},
		"rows":    []any{[]any{"2024-01-01", "100"}},
	}
	mapping := ColumnMapping{Date: "fecha", Amount: "importe"}

	res, err := testNormalizer().Normalize(input, mapping, DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, FormatTransactional, res.Format)
	assert.Equal(t, []string{"date", "amount"}, res.Columns)
}
