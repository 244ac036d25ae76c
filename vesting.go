package captable

import (
	"github.com/etnz/captable/date"
	"github.com/shopspring/decimal"
)

// vestedGross returns the units vested by asOf before any reduction:
// nothing before the vesting start or the cliff, everything after the schedule, and a linear
// share in between, truncated to whole units.
func vestedGross(a EquityAward, asOf Date) Quantity {
	if asOf.Before(a.VestingStartDate) {
		return Quantity{}
	}
	months := date.MonthsBetween(a.VestingStartDate, asOf)
	switch {
	case months < a.CliffMonths:
		return Quantity{}
	case months >= a.TotalMonths:
		return a.QuantityGranted
	default:
		// multiply first: 18/48 is not exact.
		v := a.QuantityGranted.value.Mul(decimal.NewFromInt(int64(months))).Div(decimal.NewFromInt(int64(a.TotalMonths)))
		return Quantity{value: v.Floor()}
	}
}

// VestedShares returns the vested units of an award on asOf, net of the
// exercised and canceled units.
//
// Months are whole calendar months since the vesting start (see
// date.MonthsBetween), not multiples of a fixed number of days.
func VestedShares(a EquityAward, asOf Date) Quantity {
	net := vestedGross(a, asOf).Sub(a.QuantityExercised).Sub(a.QuantityCanceled)
	return net.Max(Quantity{})
}

// UnvestedShares returns the outstanding units of an award that have not
// vested yet on asOf. VestedShares + UnvestedShares is the outstanding
// quantity, as long as it is positive.
func UnvestedShares(a EquityAward, asOf Date) Quantity {
	return a.Outstanding().Sub(VestedShares(a, asOf)).Max(Quantity{})
}

// VestingEvent is one tranche of a vesting schedule.
type VestingEvent struct {
	Date       Date     `json:"date"`
	Quantity   Quantity `json:"quantity"`   // units vesting on Date
	Cumulative Quantity `json:"cumulative"` // units vested on Date, before reductions
}

// VestingSchedule returns the monthly vesting tranches of an award: the
// cliff tranche, then one tranche per month until the end of the schedule.
// Months where truncation vests nothing are skipped.
func VestingSchedule(a EquityAward) []VestingEvent {
	if a.TotalMonths <= 0 {
		if !a.QuantityGranted.IsPositive() {
			return nil
		}
		return []VestingEvent{{Date: a.VestingStartDate, Quantity: a.QuantityGranted, Cumulative: a.QuantityGranted}}
	}
	var events []VestingEvent
	var previous Quantity
	for m := max(a.CliffMonths, 1); m <= a.TotalMonths; m++ {
		on := a.VestingStartDate.AddMonths(m)
		cumulative := vestedGross(a, on)
		if !cumulative.GreaterThan(previous) {
			continue
		}
		events = append(events, VestingEvent{Date: on, Quantity: cumulative.Sub(previous), Cumulative: cumulative})
		previous = cumulative
	}
	return events
}

// VestingScheduleBy returns the vesting schedule summarized by period: one
// event per period with a tranche, dated at the end of the period.
func VestingScheduleBy(a EquityAward, p date.Period) []VestingEvent {
	var events []VestingEvent
	for _, e := range VestingSchedule(a) {
		end := e.Date.EndOf(p)
		if n := len(events); n > 0 && events[n-1].Date == end {
			events[n-1].Quantity = events[n-1].Quantity.Add(e.Quantity)
			events[n-1].Cumulative = e.Cumulative
			continue
		}
		events = append(events, VestingEvent{Date: end, Quantity: e.Quantity, Cumulative: e.Cumulative})
	}
	return events
}

// sumOutstanding sums f over the awards of the accepted types.
func sumOutstanding(awards []EquityAward, accept func(AwardType) bool, f func(EquityAward) Quantity) Quantity {
	var total Quantity
	for _, a := range awards {
		if accept(a.Type) {
			total = total.Add(f(a))
		}
	}
	return total
}

// OutstandingOptions returns the ISO and NSO units granted and not yet
// exercised, canceled or expired.
func OutstandingOptions(awards []EquityAward) Quantity {
	return sumOutstanding(awards, AwardType.IsOption, EquityAward.Outstanding)
}

// OutstandingRSUs returns the RSU units granted and not canceled.
//
// Released units (QuantityExercised) are not subtracted: they
// remain counted until they show up as issued shares.
// TODO(product): confirm released RSUs should stay in the outstanding count.
func OutstandingRSUs(awards []EquityAward) Quantity {
	return sumOutstanding(awards,
		func(t AwardType) bool { return t == RSU },
		func(a EquityAward) Quantity { return a.QuantityGranted.Sub(a.QuantityCanceled) })
}

// OutstandingWarrants returns the warrant units granted and not yet
// exercised, canceled or expired.
func OutstandingWarrants(awards []EquityAward) Quantity {
	return sumOutstanding(awards,
		func(t AwardType) bool { return t == Warrant },
		EquityAward.Outstanding)
}
