package captable

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money amounts are rounded to.
const MoneyPlaces = 4

// Money represents a monetary amount.
//
// Money carries no currency: a cap table is kept in a single currency, which
// is only needed for display (see Format).
type Money struct {
	value decimal.Decimal
}

// M returns the money amount for value.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// RoundMoney rounds x to MoneyPlaces, half away from zero.
func RoundMoney(x decimal.Decimal) decimal.Decimal { return x.Round(MoneyPlaces) }

func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Round() Money                    { return Money{value: RoundMoney(m.value)} }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value)} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value)} }
func (m Money) DivPrice(n Money) Quantity       { return Quantity{value: m.value.Div(n.value)} }

// Scale multiplies the amount by a plain factor (a rate, a ratio).
func (m Money) Scale(f decimal.Decimal) Money { return Money{value: m.value.Mul(f)} }

// String returns the amount with MoneyPlaces decimals.
func (m Money) String() string { return m.value.StringFixed(MoneyPlaces) }

// Format returns the amount formatted in the given ISO currency, using the
// currency's own fraction digits ("$1,234.50"). An empty or unknown currency
// falls back to String.
func (m Money) Format(currency string) string { return m.format(currency, -1) }

// FormatPrice is like Format but keeps MoneyPlaces decimals, which matters for
// per-share prices ("$0.5900").
func (m Money) FormatPrice(currency string) string { return m.format(currency, MoneyPlaces) }

func (m Money) format(currency string, places int) string {
	cur, ok := lookupCurrency(currency)
	if !ok {
		return m.String()
	}
	f := *cur.Formatter()
	if places >= 0 {
		f.Fraction = places
	}
	minor := m.value.Round(int32(f.Fraction)).Shift(int32(f.Fraction))
	return f.Format(minor.IntPart())
}

// lookupCurrency returns the go-money currency for code.
func lookupCurrency(code string) (money.Currency, bool) {
	if code == "" {
		return money.Currency{}, false
	}
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, code).Currency()
	// unknown currencies come back without a display template.
	return cur, cur.Template != ""
}

// KnownCurrency reports whether code is an ISO currency known for display.
func KnownCurrency(code string) bool {
	_, ok := lookupCurrency(code)
	return ok
}

// MarshalJSON encodes the amount as a plain JSON number.
func (m Money) MarshalJSON() ([]byte, error) { return m.value.MarshalJSON() }

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }
