package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultToleranceBps is the divergence tolerated between two price sources
// before a reconciliation reports a conflict, in basis points.
const DefaultToleranceBps = 50

// Source identifies where a reconciled value came from.
type Source string

const (
	SourceValuation     Source = "valuation"     // valuation over pre-round fully diluted shares
	SourceConsideration Source = "consideration" // consideration over quantity
	SourcePps           Source = "pps"           // price per share times fully diluted shares
	SourceOverride      Source = "override"      // explicitly entered by the user
	SourceUnknown       Source = "unknown"       // no usable input
)

// ReconcileResult is the outcome of reconciling a price per share or a
// valuation. It is computed, never persisted.
//
// A conflict is not an error: the caller decides whether to warn, block or
// ignore it.
type ReconcileResult struct {
	Value           Money   `json:"value"` // zero when Source is SourceUnknown
	Source          Source  `json:"source"`
	WarningDeltaPct Percent `json:"warningDeltaPct,omitempty"` // divergence between the two sources, set on conflict only
	HasConflict     bool    `json:"hasConflict"`
	ConflictMessage string  `json:"conflictMessage,omitempty"`
}

// Known reports whether a value could be determined.
func (r ReconcileResult) Known() bool { return r.Source != SourceUnknown }

// PpsInputs are the candidate sources of a price per share.
// Zero or negative amounts are treated as absent.
type PpsInputs struct {
	FromValuation     Money
	FromConsideration Money
	Override          Money
	ToleranceBps      int // <= 0 means DefaultToleranceBps
}

// ValuationInputs are the candidate sources of a company valuation.
// Zero or negative amounts are treated as absent.
type ValuationInputs struct {
	FromPps           Money
	FromConsideration Money
	Override          Money
	ToleranceBps      int // <= 0 means DefaultToleranceBps
}

// DerivePpsFromValuation returns valuation / preRoundFD rounded as money,
// false unless both are strictly positive.
func DerivePpsFromValuation(valuation Money, preRoundFD Quantity) (Money, bool) {
	if !valuation.IsPositive() || !preRoundFD.IsPositive() {
		return Money{}, false
	}
	return valuation.Div(preRoundFD).Round(), true
}

// DerivePpsFromConsideration returns consideration / quantity rounded as money,
// false unless both are strictly positive.
func DerivePpsFromConsideration(consideration Money, quantity Quantity) (Money, bool) {
	if !consideration.IsPositive() || !quantity.IsPositive() {
		return Money{}, false
	}
	return consideration.Div(quantity).Round(), true
}

// DeriveValuationFromPps returns pps * fd rounded as money,
// false unless both are strictly positive.
func DeriveValuationFromPps(pps Money, fd Quantity) (Money, bool) {
	if !pps.IsPositive() || !fd.IsPositive() {
		return Money{}, false
	}
	return pps.Mul(fd).Round(), true
}

// DeriveValuationFromConsideration returns the valuation implied by paying
// consideration for quantity shares out of fd fully diluted shares.
func DeriveValuationFromConsideration(consideration Money, quantity, fd Quantity) (Money, bool) {
	if !consideration.IsPositive() || !quantity.IsPositive() || !fd.IsPositive() {
		return Money{}, false
	}
	return consideration.Div(quantity).Mul(fd).Round(), true
}

// ReconcilePps picks the price per share among its sources.
//
// An override always wins. When both derived sources are present the
// valuation-derived price is returned, and the divergence is reported if it
// exceeds the tolerance. Otherwise the single present source is returned, or
// SourceUnknown.
func ReconcilePps(in PpsInputs) ReconcileResult {
	return reconcile("price per share",
		candidate{in.FromValuation, SourceValuation},
		candidate{in.FromConsideration, SourceConsideration},
		in.Override, in.ToleranceBps)
}

// ReconcileValuation is the mirror of ReconcilePps for the company valuation,
// preferring the pps-derived valuation over the consideration-derived one.
func ReconcileValuation(in ValuationInputs) ReconcileResult {
	return reconcile("valuation",
		candidate{in.FromPps, SourcePps},
		candidate{in.FromConsideration, SourceConsideration},
		in.Override, in.ToleranceBps)
}

type candidate struct {
	value  Money
	source Source
}

// reconcile implements both reconciliations, preferred is returned when both
// candidates are present.
func reconcile(label string, preferred, other candidate, override Money, toleranceBps int) ReconcileResult {
	if override.IsPositive() {
		return ReconcileResult{Value: override.Round(), Source: SourceOverride}
	}
	a, b := preferred.value, other.value
	switch {
	case a.IsPositive() && b.IsPositive():
		res := ReconcileResult{Value: a.Round(), Source: preferred.source}
		if toleranceBps <= 0 {
			toleranceBps = DefaultToleranceBps
		}
		delta := deltaPct(a.value, b.value)
		threshold := decimal.New(int64(toleranceBps), -2) // bps to percent
		if delta.GreaterThan(threshold) {
			res.HasConflict = true
			res.WarningDeltaPct = Percent(delta.Round(2).InexactFloat64())
			res.ConflictMessage = fmt.Sprintf("%s from %s (%s) and from %s (%s) differ by %s, above the %s tolerance",
				label, preferred.source, a.Round(), other.source, b.Round(),
				res.WarningDeltaPct, Percent(threshold.InexactFloat64()))
		}
		return res
	case a.IsPositive():
		return ReconcileResult{Value: a.Round(), Source: preferred.source}
	case b.IsPositive():
		return ReconcileResult{Value: b.Round(), Source: other.source}
	default:
		return ReconcileResult{Source: SourceUnknown}
	}
}

// deltaPct is |a-b| relative to the midpoint of a and b, in percent.
func deltaPct(a, b decimal.Decimal) decimal.Decimal {
	mid := a.Add(b).Div(decimal.NewFromInt(2))
	return a.Sub(b).Abs().Div(mid).Shift(2)
}
