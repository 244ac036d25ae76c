package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// PpsMarkdown renders a price per share reconciliation.
func PpsMarkdown(r captable.ReconcileResult, currency string) string {
	return reconcileMarkdown("Price per Share", r, r.Value.FormatPrice(currency))
}

// ValuationMarkdown renders a company valuation reconciliation.
func ValuationMarkdown(r captable.ReconcileResult, currency string) string {
	return reconcileMarkdown("Valuation", r, r.Value.Format(currency))
}

func reconcileMarkdown(title string, r captable.ReconcileResult, value string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if !r.Known() {
		doc.PlainText("No usable input: provide a valuation, a consideration or an override.")
		return doc.String()
	}

	doc.H2("Result")
	doc.Table(md.TableSet{
		Alignment: alignLeftRight(1),
		Header:    []string{md.Bold("Value"), md.Bold(value)},
		Rows: [][]string{
			{"Source", string(r.Source)},
		},
	})

	if r.HasConflict {
		doc.H2("Conflict")
		doc.PlainText(fmt.Sprintf("The sources differ by %s.", r.WarningDeltaPct))
		doc.PlainText(r.ConflictMessage)
	}
	return doc.String()
}
