package normalize

import (
	"math"
	"strconv"
	"strings"
)

// currencyStripper removes the currency symbols and whitespace the engine
// tolerates inside numeric cells.
var currencyStripper = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	"+", "",
	" ", "",
	"\t", "",
	" ", "",
)

// CleanNumeric coerces a cell to float64. Numeric types pass through, strings
// go through separator disambiguation, and anything unparseable becomes 0.0.
// The result is always finite.
//
// Separator rules for strings:
//   - both '.' and ',' present: the separator occurring last is the decimal
//     mark, the other is a thousands separator and is dropped;
//   - only ',' present: it is a decimal mark when it sits within the last
//     three characters, otherwise a thousands separator;
//   - only '.' present: parsed as-is.
func CleanNumeric(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0.0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1.0
		}
		return 0.0
	case string:
		return cleanNumericString(n)
	default:
		return 0.0
	}
}

func cleanNumericString(s string) float64 {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0.0
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// European style: 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// American style: 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if lastComma > len(s)-4 {
			// Comma close to the end reads as a decimal mark: 12,5
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Otherwise a thousands separator: 1,234
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return f
}
