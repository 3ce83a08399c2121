package reports

import "strings"

// Concept categories used by the yearly summary.
const (
	CategoryIncome    = "income"
	CategoryExpense   = "expense"
	CategoryAsset     = "asset"
	CategoryLiability = "liability"
	CategoryEquity    = "equity"
	CategoryOther     = "other"
)

// conceptCategories maps each category to its recognition terms, Spanish and
// English. Order matters: the first category whose terms match wins.
var conceptCategories = []struct {
	name  string
	terms []string
}{
	{CategoryIncome, []string{"ingreso", "venta", "revenue", "income"}},
	{CategoryExpense, []string{"gasto", "costo", "expense", "cost"}},
	{CategoryAsset, []string{"activo", "asset", "caja", "banco"}},
	{CategoryLiability, []string{"pasivo", "deuda", "liability", "debt"}},
	{CategoryEquity, []string{"patrimonio", "capital", "equity"}},
}

// CategorizeConcept classifies a financial concept label by substring match.
func CategorizeConcept(concept string) string {
	lower := strings.ToLower(concept)
	for _, cat := range conceptCategories {
		for _, term := range cat.terms {
			if strings.Contains(lower, term) {
				return cat.name
			}
		}
	}
	return CategoryOther
}
