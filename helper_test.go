package captable

import (
	"github.com/etnz/captable/date"
	"github.com/shopspring/decimal"
)

// usd is a helper for tests to create money from a decimal literal.
func usd(s string) Money { return M(decimal.RequireFromString(s)) }

// sh is a helper for tests to create a share quantity from a decimal literal.
func sh(s string) Quantity { return Q(decimal.RequireFromString(s)) }

// day is a helper for tests to create a date from its ISO form.
func day(s string) Date { return date.MustParse(s) }

// dec is a helper for tests to create a plain decimal.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
