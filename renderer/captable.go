package renderer

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// CapTableMarkdown renders the full cap table: holders, classes, option
// plans and the convertibles still outstanding.
func CapTableMarkdown(t *captable.CapTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Capitalization of %s", cmp.Or(t.Name, "the company")))
	doc.PlainText(fmt.Sprintf("Outstanding shares: %s. Fully diluted shares: %s.",
		t.OutstandingShares().Format(), t.FullyDilutedShares().Format()))

	doc.H2("Holders")
	holders := md.TableSet{
		Alignment: alignLeftRight(4),
		Header:    []string{"Holder", "Shares", "Awards", "Ownership", "Fully Diluted"},
	}
	for _, h := range t.Holdings() {
		holders.Rows = append(holders.Rows, []string{
			h.HolderID,
			h.Shares.Format(),
			h.Awards.Format(),
			h.Ownership.String(),
			h.FullyDiluted.String(),
		})
	}
	if pool := t.AvailablePool(); pool.IsPositive() {
		holders.Rows = append(holders.Rows, []string{"Available pool", "", pool.Format(), "", ""})
	}
	doc.Table(holders)

	if len(t.Classes) > 0 {
		doc.H2("Security Classes")
		classes := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Class", "Name", "Preference", "Participating", "Voting", "Seniority"},
		}
		for _, c := range t.Classes {
			classes.Rows = append(classes.Rows, []string{
				c.ID,
				c.Name,
				c.LiquidationPreferenceMultiple.String() + "x",
				yesNo(c.Participating),
				yesNo(c.VotingRights),
				fmt.Sprint(c.SeniorityTier),
			})
		}
		doc.Table(classes)
	}

	if len(t.Plans) > 0 {
		doc.H2("Option Plans")
		planTable(doc, t.Plans)
	}

	var pending []captable.ConvertibleInstrument
	for _, c := range t.Convertibles {
		if !c.Converted {
			pending = append(pending, c)
		}
	}
	if len(pending) > 0 {
		doc.H2("Convertibles")
		convertibles := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"ID", "Holder", "Type", "Principal", "Discount", "Cap", "Interest"},
		}
		for _, c := range pending {
			valCap, discount, interest := "-", "-", "-"
			if c.ValuationCap.IsPositive() {
				valCap = c.ValuationCap.Format(t.Currency)
			}
			if c.DiscountRate.IsPositive() {
				discount = fraction(c.DiscountRate)
			}
			if c.InterestRate.IsPositive() {
				interest = percent(c.InterestRate)
			}
			kind := string(c.Type)
			if c.PostMoney {
				kind += " (post-money)"
			}
			convertibles.Rows = append(convertibles.Rows, []string{
				c.ID, c.HolderID, kind, c.Principal.Format(t.Currency), discount, valCap, interest,
			})
		}
		doc.Table(convertibles)
	}
	return doc.String()
}
