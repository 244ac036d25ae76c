package captable

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ownershipEpsilon is the tolerance, per ledger entry, of the split
// ownership check. Each entry is rounded to SharePlaces on its own.
var ownershipEpsilon = decimal.New(1, -SharePlaces)

// SplitTerms describes a stock split: every share becomes Ratio shares.
type SplitTerms struct {
	Ratio         decimal.Decimal `json:"ratio"`
	EffectiveDate Date            `json:"effectiveDate"`
}

// NewSplitTerms returns the terms of a num-for-den split (2-for-1 is 2, 1).
func NewSplitTerms(num, den int64, on Date) (SplitTerms, error) {
	if num <= 0 {
		return SplitTerms{}, fmt.Errorf("split numerator must be positive, got %d: %w", num, ErrInvalidRatio)
	}
	if den <= 0 {
		return SplitTerms{}, fmt.Errorf("split denominator must be positive, got %d: %w", den, ErrInvalidRatio)
	}
	return SplitTerms{Ratio: decimal.NewFromInt(num).Div(decimal.NewFromInt(den)), EffectiveDate: on}, nil
}

// IsStockSplit reports whether ratio is a forward split.
func IsStockSplit(ratio decimal.Decimal) bool { return ratio.GreaterThan(decimal.NewFromInt(1)) }

// IsReverseSplit reports whether ratio is a reverse split.
func IsReverseSplit(ratio decimal.Decimal) bool {
	return ratio.IsPositive() && ratio.LessThan(decimal.NewFromInt(1))
}

// CalculateSplitRatio returns newShares / oldShares rounded to SharePlaces.
func CalculateSplitRatio(newShares, oldShares Quantity) (decimal.Decimal, error) {
	if oldShares.IsZero() {
		return decimal.Zero, fmt.Errorf("split ratio of %v over zero shares: %w", newShares, ErrDivisionByZero)
	}
	return RoundShares(newShares.value.Div(oldShares.value)), nil
}

// SplitResult holds the instruments after a split. Convertibles and classes
// are copies of the inputs.
type SplitResult struct {
	ShareEntries []ShareLedgerEntry
	Awards       []EquityAward
	Convertibles []ConvertibleInstrument
	Classes      []SecurityClass
}

// ApplySplit applies a stock split to every instrument.
//
// Share ledger quantities and award quantities are multiplied by the ratio,
// each rounded to SharePlaces, and strike prices are divided by it, rounded
// to MoneyPlaces. Convertible principal, discount and cap, and security
// class terms are contractual dollar amounts and multiples: they pass
// through unchanged.
func ApplySplit(entries []ShareLedgerEntry, awards []EquityAward, convertibles []ConvertibleInstrument, classes []SecurityClass, terms SplitTerms) (SplitResult, error) {
	ratio := terms.Ratio
	if !ratio.IsPositive() {
		return SplitResult{}, fmt.Errorf("split ratio %v must be positive: %w", ratio, ErrInvalidRatio)
	}

	res := SplitResult{
		ShareEntries: make([]ShareLedgerEntry, len(entries)),
		Awards:       make([]EquityAward, len(awards)),
		Convertibles: slices.Clone(convertibles),
		Classes:      slices.Clone(classes),
	}
	for i, e := range entries {
		e.Quantity = e.Quantity.Scale(ratio).Round()
		res.ShareEntries[i] = e
	}
	for i, a := range awards {
		res.Awards[i] = splitAward(a, ratio)
	}
	return res, nil
}

func splitAward(a EquityAward, ratio decimal.Decimal) EquityAward {
	a.QuantityGranted = a.QuantityGranted.Scale(ratio).Round()
	a.QuantityExercised = a.QuantityExercised.Scale(ratio).Round()
	a.QuantityCanceled = a.QuantityCanceled.Scale(ratio).Round()
	a.QuantityExpired = a.QuantityExpired.Scale(ratio).Round()
	if !a.StrikePrice.IsZero() {
		a.StrikePrice = Money{value: a.StrikePrice.value.Div(ratio)}.Round()
	}
	return a
}

// SplitOptionPlan applies a split ratio to the plan counters. Available
// shares absorb the rounding so that the plan still adds up, unless they
// would go negative: the residue is then taken from the largest of the
// allocated and issued shares.
func SplitOptionPlan(p OptionPlan, ratio decimal.Decimal) OptionPlan {
	p.TotalShares = p.TotalShares.Scale(ratio).Round()
	p.AllocatedShares = p.AllocatedShares.Scale(ratio).Round()
	p.IssuedShares = p.IssuedShares.Scale(ratio).Round()
	p.AvailableShares = p.TotalShares.Sub(p.AllocatedShares).Sub(p.IssuedShares)
	if residue := p.AvailableShares; residue.IsNegative() {
		if p.AllocatedShares.GreaterThanOrEqual(p.IssuedShares) {
			p.AllocatedShares = p.AllocatedShares.Add(residue)
		} else {
			p.IssuedShares = p.IssuedShares.Add(residue)
		}
		p.AvailableShares = Quantity{}
	}
	return p
}

// ValidateSplitPreservesOwnership reports whether the share total after a
// split is the total before times ratio. It is a check, meant to run after
// every split.
func ValidateSplitPreservesOwnership(before, after []ShareLedgerEntry, ratio decimal.Decimal) bool {
	want := RoundShares(totalShares(before).value.Mul(ratio))
	got := totalShares(after).value
	n := max(len(before), len(after), 1)
	tolerance := ownershipEpsilon.Mul(decimal.NewFromInt(int64(n)))
	return got.Sub(want).Abs().LessThanOrEqual(tolerance)
}

func totalShares(entries []ShareLedgerEntry) Quantity {
	var total Quantity
	for _, e := range entries {
		total = total.Add(e.Quantity)
	}
	return total
}

// HolderSplit is one holder's position across a split.
type HolderSplit struct {
	HolderID        string   `json:"holder"`
	Before          Quantity `json:"before"`
	After           Quantity `json:"after"`
	OwnershipBefore Percent  `json:"ownershipBefore"`
	OwnershipAfter  Percent  `json:"ownershipAfter"`
}

// SplitReport summarizes a split for display.
type SplitReport struct {
	Terms       SplitTerms    `json:"terms"`
	Holders     []HolderSplit `json:"holders"`
	TotalBefore Quantity      `json:"totalBefore"`
	TotalAfter  Quantity      `json:"totalAfter"`
	Preserved   bool          `json:"preserved"` // result of ValidateSplitPreservesOwnership
}

// Kind returns "forward", "reverse" or "none".
func (r SplitReport) Kind() string {
	switch {
	case IsStockSplit(r.Terms.Ratio):
		return "forward"
	case IsReverseSplit(r.Terms.Ratio):
		return "reverse"
	default:
		return "none"
	}
}

// NewSplitReport compares the share entries before and after a split.
func NewSplitReport(before, after []ShareLedgerEntry, terms SplitTerms) SplitReport {
	sum := func(entries []ShareLedgerEntry) map[string]Quantity {
		m := make(map[string]Quantity)
		for _, e := range entries {
			m[e.HolderID] = m[e.HolderID].Add(e.Quantity)
		}
		return m
	}
	qBefore, qAfter := sum(before), sum(after)
	pBefore, pAfter := OwnershipByHolder(before), OwnershipByHolder(after)

	r := SplitReport{
		Terms:       terms,
		TotalBefore: totalShares(before),
		TotalAfter:  totalShares(after),
		Preserved:   ValidateSplitPreservesOwnership(before, after, terms.Ratio),
	}
	for _, id := range sortedHolders(append(slices.Clone(before), after...)) {
		r.Holders = append(r.Holders, HolderSplit{
			HolderID:        id,
			Before:          qBefore[id],
			After:           qAfter[id],
			OwnershipBefore: pBefore[id],
			OwnershipAfter:  pAfter[id],
		})
	}
	return r
}
