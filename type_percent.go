package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage for display and warnings, 9.52 means 9.52%.
type Percent float64

// percentOf returns part/whole*100 rounded to 2 decimals, 0 if whole is zero.
func percentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(part.Div(whole).Shift(2).Round(2).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}
