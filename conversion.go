package captable

import (
	"fmt"
	"strings"

	"github.com/etnz/captable/date"
	"github.com/shopspring/decimal"
)

// daysPerYear is the Actual/365 day count basis of note interest.
const daysPerYear = 365

// Method names the price a convertible converted at.
type Method string

const (
	MethodRound    Method = "round"
	MethodDiscount Method = "discount"
	MethodCap      Method = "cap"
)

// RoundTerms are the terms of the priced round a convertible converts into.
type RoundTerms struct {
	PricePerShare     Money
	PreMoneyValuation Money
	// PreRoundShares is the pre-round fully diluted share count the valuation
	// cap applies to. When zero it is implied as PreMoneyValuation / PricePerShare.
	PreRoundShares Quantity
	Date           Date // closing date, note interest accrues until then
}

// fullyDiluted returns the pre-round fully diluted shares, given or implied.
func (r RoundTerms) fullyDiluted() (Quantity, bool) {
	if r.PreRoundShares.IsPositive() {
		return r.PreRoundShares, true
	}
	if r.PreMoneyValuation.IsPositive() && r.PricePerShare.IsPositive() {
		return r.PreMoneyValuation.DivPrice(r.PricePerShare).Round(), true
	}
	return Quantity{}, false
}

// Conversion is the result of converting one instrument.
type Conversion struct {
	InstrumentID    string   `json:"instrument"`
	HolderID        string   `json:"holder"`
	ConversionPrice Money    `json:"conversionPrice"`
	SharesIssued    Quantity `json:"sharesIssued"`
	Method          Method   `json:"method"`
	Principal       Money    `json:"principal"`
	Interest        Money    `json:"interest"`
	Total           Money    `json:"total"` // principal plus interest, the amount converting
	Reasoning       string   `json:"reasoning"`
}

// Entry returns the share ledger entry recording the conversion, with a new id.
// The converted amount is recorded as the consideration.
func (c Conversion) Entry(classID string, on Date) ShareLedgerEntry {
	return ShareLedgerEntry{
		ID:            NewID(),
		HolderID:      c.HolderID,
		ClassID:       classID,
		Quantity:      c.SharesIssued,
		IssueDate:     on,
		Consideration: c.Total,
	}
}

// MarkConverted returns a copy of c flagged as converted. Convert refuses to
// convert it again.
func MarkConverted(c ConvertibleInstrument) ConvertibleInstrument {
	c.Converted = true
	return c
}

// Convert converts a SAFE or a note into shares of the round.
//
// Conversion is one-shot: an instrument flagged Converted is rejected. The
// flag itself is the caller's to persist.
func Convert(c ConvertibleInstrument, r RoundTerms) (Conversion, error) {
	if c.Converted {
		return Conversion{}, fmt.Errorf("convertible %q: %w", c.ID, ErrAlreadyConverted)
	}
	switch c.Type {
	case SAFE:
		return ConvertSAFE(c, r)
	case Note:
		return ConvertNote(c, r)
	default:
		return Conversion{}, fmt.Errorf("convertible %q: unknown type %q: %w", c.ID, c.Type, ErrMissingTerms)
	}
}

// ConvertSAFE converts a SAFE.
//
// A pre-money SAFE converts its principal at the lowest of the discount, cap
// and round prices. A post-money SAFE is defined by the ownership it
// guarantees, principal / cap of the post-conversion capitalization.
func ConvertSAFE(c ConvertibleInstrument, r RoundTerms) (Conversion, error) {
	if err := checkTerms(c, r); err != nil {
		return Conversion{}, err
	}
	if c.PostMoney {
		return convertPostMoney(c, r)
	}
	total := c.Principal.Round()
	return convertAt(c, r, total, Money{})
}

// ConvertNote converts a convertible note: principal plus interest accrued
// until the round date, at the lowest of the discount, cap and round prices.
func ConvertNote(c ConvertibleInstrument, r RoundTerms) (Conversion, error) {
	if err := checkTerms(c, r); err != nil {
		return Conversion{}, err
	}
	interest, err := AccruedInterest(c, r.Date)
	if err != nil {
		return Conversion{}, err
	}
	total := c.Principal.Add(interest).Round()
	return convertAt(c, r, total, interest)
}

func checkTerms(c ConvertibleInstrument, r RoundTerms) error {
	if !r.PricePerShare.IsPositive() {
		return fmt.Errorf("round price per share %v must be positive: %w", r.PricePerShare, ErrInvalidRound)
	}
	if !c.Principal.IsPositive() {
		return fmt.Errorf("convertible %q: principal %v must be positive: %w", c.ID, c.Principal, ErrMissingTerms)
	}
	if c.DiscountRate.IsNegative() || c.DiscountRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("convertible %q: discount rate %v must be in [0, 1): %w", c.ID, c.DiscountRate, ErrInvariant)
	}
	if c.ValuationCap.IsNegative() {
		return fmt.Errorf("convertible %q: negative valuation cap: %w", c.ID, ErrInvariant)
	}
	return nil
}

type pricedMethod struct {
	method Method
	price  Money
}

// candidatePrices returns the defined conversion prices, in evaluation order.
func candidatePrices(c ConvertibleInstrument, r RoundTerms) ([]pricedMethod, error) {
	prices := []pricedMethod{{MethodRound, r.PricePerShare.Round()}}
	if c.DiscountRate.IsPositive() {
		discounted := r.PricePerShare.Scale(decimal.NewFromInt(1).Sub(c.DiscountRate)).Round()
		prices = append(prices, pricedMethod{MethodDiscount, discounted})
	}
	if c.ValuationCap.IsPositive() {
		fd, ok := r.fullyDiluted()
		if !ok {
			return nil, fmt.Errorf("convertible %q: valuation cap needs the pre-round fully diluted shares or the pre-money valuation: %w", c.ID, ErrMissingTerms)
		}
		prices = append(prices, pricedMethod{MethodCap, c.ValuationCap.Div(fd).Round()})
	}
	return prices, nil
}

// convertAt converts total at the lowest candidate price.
func convertAt(c ConvertibleInstrument, r RoundTerms, total, interest Money) (Conversion, error) {
	prices, err := candidatePrices(c, r)
	if err != nil {
		return Conversion{}, err
	}
	best := prices[0]
	for _, p := range prices[1:] {
		// on a tie the later method is reported, the shares are the same.
		if p.price.LessThanOrEqual(best.price) {
			best = p
		}
	}
	if !best.price.IsPositive() {
		return Conversion{}, fmt.Errorf("convertible %q: %s price rounds to zero: %w", c.ID, best.method, ErrInvalidRound)
	}

	return Conversion{
		InstrumentID:    c.ID,
		HolderID:        c.HolderID,
		ConversionPrice: best.price,
		SharesIssued:    total.DivPrice(best.price).Round(),
		Method:          best.method,
		Principal:       c.Principal.Round(),
		Interest:        interest,
		Total:           total,
		Reasoning:       priceReasoning(best, prices),
	}, nil
}

func priceReasoning(best pricedMethod, prices []pricedMethod) string {
	if len(prices) == 1 {
		return fmt.Sprintf("no discount or valuation cap: converts at the round price %s", best.price)
	}
	var parts []string
	for _, p := range prices {
		parts = append(parts, fmt.Sprintf("%s %s", p.method, p.price))
	}
	return fmt.Sprintf("%s price %s is the lowest, most favorable to the investor, of: %s",
		best.method, best.price, strings.Join(parts, ", "))
}

// convertPostMoney converts a post-money SAFE. It always issues the
// ownership its cap guarantees, whatever the round price.
func convertPostMoney(c ConvertibleInstrument, r RoundTerms) (Conversion, error) {
	if !c.ValuationCap.IsPositive() {
		return Conversion{}, fmt.Errorf("convertible %q: post-money SAFE without valuation cap: %w", c.ID, ErrMissingTerms)
	}
	fd, ok := r.fullyDiluted()
	if !ok {
		return Conversion{}, fmt.Errorf("convertible %q: post-money SAFE needs the pre-round shares: %w", c.ID, ErrMissingTerms)
	}
	principal := c.Principal.Round()
	one := decimal.NewFromInt(1)
	ownership := principal.value.Div(c.ValuationCap.value)
	if ownership.GreaterThanOrEqual(one) {
		return Conversion{}, fmt.Errorf("convertible %q: principal %v buys %s of the company: %w", c.ID, principal, percentOf(ownership, one), ErrInvalidRound)
	}

	// shares such that shares / (pre-round shares + shares) = ownership
	shares := Quantity{value: ownership.Mul(fd.value).Div(one.Sub(ownership))}.Round()
	if !shares.IsPositive() {
		return Conversion{}, fmt.Errorf("convertible %q: post-money SAFE converts into zero shares: %w", c.ID, ErrInvalidRound)
	}

	return Conversion{
		InstrumentID:    c.ID,
		HolderID:        c.HolderID,
		ConversionPrice: principal.Div(shares).Round(),
		SharesIssued:    shares,
		Method:          MethodCap,
		Principal:       principal,
		Total:           principal,
		Reasoning: fmt.Sprintf("post-money cap %s guarantees %s ownership, %s shares over %s pre-round shares",
			c.ValuationCap.Round(), percentOf(ownership, one), shares, fd),
	}, nil
}

// AccruedInterest returns the interest a note has accrued from its issue
// date until asOf.
func AccruedInterest(c ConvertibleInstrument, asOf Date) (Money, error) {
	if c.InterestRate.IsZero() {
		return Money{}, nil
	}
	if asOf.IsZero() {
		return Money{}, fmt.Errorf("convertible %q: interest needs a conversion date: %w", c.ID, ErrMissingTerms)
	}
	days := date.DaysBetween(c.IssueDate, asOf)
	if days <= 0 {
		return Money{}, nil
	}
	return AccrueInterest(c.Principal, c.InterestRate, days, c.Compounding)
}

// AccrueInterest returns the interest on principal at an annual ratePct for
// days days, on an Actual/365 basis.
//
// Simple interest is principal × rate × days/365. Compounded interest
// compounds over the whole periods elapsed, and the remaining stub accrues
// simple interest on the compounded balance.
func AccrueInterest(principal Money, ratePct decimal.Decimal, days int, comp Compounding) (Money, error) {
	n, err := comp.periodsPerYear()
	if err != nil {
		return Money{}, err
	}
	rate := ratePct.Shift(-2)
	year := decimal.NewFromInt(daysPerYear)
	elapsed := decimal.NewFromInt(int64(days))

	if n == 0 {
		return principal.Scale(rate).Scale(elapsed.Div(year)).Round(), nil
	}

	periods := int(elapsed.Mul(decimal.NewFromInt(int64(n))).Div(year).IntPart())
	factor := decimal.NewFromInt(1).Add(rate.Div(decimal.NewFromInt(int64(n))))
	balance := principal.value
	for range periods {
		balance = balance.Mul(factor).Round(16)
	}
	stubDays := elapsed.Sub(decimal.NewFromInt(int64(periods)).Mul(year).Div(decimal.NewFromInt(int64(n))))
	balance = balance.Add(balance.Mul(rate).Mul(stubDays).Div(year))
	return Money{value: balance.Sub(principal.value)}.Round(), nil
}
