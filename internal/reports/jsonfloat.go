package reports

import (
	"encoding/json"
	"math"
)

// JSONFloat is a float64 that marshals NaN and infinities as JSON null.
// Division-derived fields (variance percentages) use it so a zero budget
// cannot produce invalid JSON.
type JSONFloat float64

func (f JSONFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
