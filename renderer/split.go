package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// SplitMarkdown renders the holders' positions across a split.
func SplitMarkdown(r captable.SplitReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Stock Split on %s", day(r.Terms.EffectiveDate)))
	doc.PlainText(fmt.Sprintf("Ratio %s (%s split).", r.Terms.Ratio, r.Kind()))
	if !r.Preserved {
		doc.PlainText(md.Bold("Warning: the split does not preserve the total ownership."))
	}

	doc.H2("Holders")
	table := md.TableSet{
		Alignment: alignLeftRight(4),
		Header:    []string{"Holder", "Before", "After", "Ownership Before", "Ownership After"},
	}
	for _, h := range r.Holders {
		table.Rows = append(table.Rows, []string{
			h.HolderID,
			h.Before.Format(),
			h.After.Format(),
			h.OwnershipBefore.String(),
			h.OwnershipAfter.String(),
		})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), md.Bold(r.TotalBefore.Format()), md.Bold(r.TotalAfter.Format()), "", ""})
	doc.Table(table)
	return doc.String()
}
