package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// ConversionMarkdown renders the conversion of a SAFE or a note.
func ConversionMarkdown(c captable.Conversion, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Conversion of %s", c.InstrumentID))
	doc.PlainText(fmt.Sprintf("Holder: %s", c.HolderID))

	doc.H2("Amount Converting")
	rows := [][]string{{"Principal", c.Principal.Format(currency)}}
	if !c.Interest.IsZero() {
		rows = append(rows, []string{"Accrued Interest", c.Interest.Format(currency)})
	}
	doc.Table(md.TableSet{
		Alignment: alignLeftRight(1),
		Header:    []string{md.Bold("Total"), md.Bold(c.Total.Format(currency))},
		Rows:      rows,
	})

	doc.H2("Shares Issued")
	doc.Table(md.TableSet{
		Alignment: alignLeftRight(1),
		Header:    []string{md.Bold("Shares"), md.Bold(c.SharesIssued.Format())},
		Rows: [][]string{
			{"Conversion Price", c.ConversionPrice.FormatPrice(currency)},
			{"Method", string(c.Method)},
		},
	})

	doc.H2("Reasoning")
	doc.PlainText(c.Reasoning)
	return doc.String()
}
