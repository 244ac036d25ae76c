package captable

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// This file normalizes amounts typed by users ("$1,234.50", "1.5M", "(500)").
//
// There is one strict grammar, parseAmount, returning a *ParseError. The
// loose variants are thin adapters over it that keep the contracts request
// handlers rely on: ParseMoneyLoose and ParseSharesLoose report "no value"
// with a false flag, ParseCurrency returns zero.

// currencySymbols are removed from money inputs.
var currencySymbols = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "", "₹", "")

// suffixes are the magnitude suffixes accepted by ParseMoney and ParseShares.
var suffixes = map[byte]int32{'k': 3, 'm': 6, 'b': 9, 't': 12}

type parseOptions struct {
	currency bool // strip currency symbols
	suffixes bool // accept K/M/B/T magnitudes
	parens   bool // accept (123) as -123
}

func parseAmount(input string, opts parseOptions) (decimal.Decimal, error) {
	s := strings.Join(strings.Fields(input), "")
	s = strings.ReplaceAll(s, ",", "")
	if opts.currency {
		s = currencySymbols.Replace(s)
	}
	if s == "" {
		return decimal.Zero, &ParseError{Input: input, Reason: "empty"}
	}

	negative := false
	if opts.parens && len(s) > 2 && s[0] == '(' && s[len(s)-1] == ')' {
		negative = true
		s = s[1 : len(s)-1]
	}

	var exp int32
	if opts.suffixes {
		last := s[len(s)-1] | 0x20 // lower case
		if e, ok := suffixes[last]; ok {
			exp = e
			s = s[:len(s)-1]
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Input: input, Reason: "not a number"}
	}
	d = d.Shift(exp)
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseMoney parses a user-entered money amount. It accepts currency symbols
// ($ £ € ¥ ₹), thousands separators, K/M/B/T suffixes (case-insensitive) and
// the accounting notation (123) for negative amounts.
func ParseMoney(s string) (Money, error) {
	d, err := parseAmount(s, parseOptions{currency: true, suffixes: true, parens: true})
	if err != nil {
		return Money{}, err
	}
	return Money{value: d}, nil
}

// ParseShares parses a user-entered share count. It accepts thousands
// separators and K/M/B/T suffixes.
func ParseShares(s string) (Quantity, error) {
	d, err := parseAmount(s, parseOptions{suffixes: true})
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: d}, nil
}

// ParsePercent parses "20%" or "20" as 20. The value is not reinterpreted: "0.2" is 0.2%.
func ParsePercent(s string) (decimal.Decimal, error) {
	return parseAmount(strings.TrimSuffix(strings.TrimSpace(s), "%"), parseOptions{})
}

// ParseCurrency is like ParseMoney but returns zero for any input it cannot read.
// Callers cannot distinguish a failure from a genuine zero.
func ParseCurrency(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}
	}
	return m
}

// ParseMoneyLoose reads a money amount from a raw JSON field, a number or a
// string. Strings may contain whitespace, thousands separators and currency
// symbols. It returns false when the input is missing, unreadable or not
// strictly positive. It never panics.
func ParseMoneyLoose(input any) (Money, bool) {
	d, ok := looseDecimal(input, parseOptions{currency: true})
	return Money{value: d}, ok
}

// ParseSharesLoose is like ParseMoneyLoose for share counts: currency symbols
// are not stripped, and fractional digits are kept as typed (round them with
// RoundShares).
func ParseSharesLoose(input any) (Quantity, bool) {
	d, ok := looseDecimal(input, parseOptions{})
	return Quantity{value: d}, ok
}

func looseDecimal(input any, opts parseOptions) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch v := input.(type) {
	case nil:
		return decimal.Zero, false
	case string:
		var err error
		if d, err = parseAmount(v, opts); err != nil {
			return decimal.Zero, false
		}
	case json.Number:
		var err error
		if d, err = decimal.NewFromString(v.String()); err != nil {
			return decimal.Zero, false
		}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	case Money:
		d = v.value
	case Quantity:
		d = v.value
	default:
		return decimal.Zero, false
	}
	if !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
