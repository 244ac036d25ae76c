package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// PlanMarkdown renders the counters of an option plan.
func PlanMarkdown(p captable.OptionPlan) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Option Plan %s", p.ID))
	doc.H2("Pool")
	planTable(doc, []captable.OptionPlan{p})
	return doc.String()
}

func planTable(doc *md.Markdown, plans []captable.OptionPlan) {
	table := md.TableSet{
		Alignment: alignLeftRight(4),
		Header:    []string{"Plan", "Total", "Allocated", "Available", "Issued"},
	}
	for _, p := range plans {
		table.Rows = append(table.Rows, []string{
			p.ID,
			p.TotalShares.Format(),
			p.AllocatedShares.Format(),
			p.AvailableShares.Format(),
			p.IssuedShares.Format(),
		})
	}
	doc.Table(table)
}
