package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// VestingMarkdown renders the vesting status of an award on a date, and its
// schedule, as returned by VestingSchedule or VestingScheduleBy.
func VestingMarkdown(a captable.EquityAward, asOf captable.Date, events []captable.VestingEvent, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Vesting of %s on %s", a.ID, asOf))
	doc.PlainText(fmt.Sprintf("%s award to %s, %d months with a %d months cliff from %s.",
		a.Type, a.HolderID, a.TotalMonths, a.CliffMonths, day(a.VestingStartDate)))

	doc.H2("Status")
	rows := [][]string{
		{"Vested", captable.VestedShares(a, asOf).Format()},
		{"Unvested", captable.UnvestedShares(a, asOf).Format()},
		{"Exercised", a.QuantityExercised.Format()},
		{"Canceled", a.QuantityCanceled.Format()},
	}
	if !a.QuantityExpired.IsZero() {
		rows = append(rows, []string{"Expired", a.QuantityExpired.Format()})
	}
	if !a.StrikePrice.IsZero() {
		rows = append(rows, []string{"Strike Price", a.StrikePrice.FormatPrice(currency)})
	}
	doc.Table(md.TableSet{
		Alignment: alignLeftRight(1),
		Header:    []string{md.Bold("Granted"), md.Bold(a.QuantityGranted.Format())},
		Rows:      rows,
	})

	if len(events) == 0 {
		return doc.String()
	}
	doc.H2("Schedule")
	table := md.TableSet{
		Alignment: alignLeftRight(2),
		Header:    []string{"Date", "Vesting", "Cumulative"},
	}
	for _, e := range events {
		on := e.Date.String()
		if !e.Date.After(asOf) {
			on = md.Bold(on)
		}
		table.Rows = append(table.Rows, []string{on, e.Quantity.Format(), e.Cumulative.Format()})
	}
	doc.Table(table)
	return doc.String()
}
