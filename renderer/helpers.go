package renderer

import (
	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// alignLeftRight aligns a label column then n value columns.
func alignLeftRight(n int) []md.TableAlignment {
	a := []md.TableAlignment{md.AlignLeft}
	for range n {
		a = append(a, md.AlignRight)
	}
	return a
}

// day renders a date, or "-" when it is not set.
func day(d captable.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// fraction renders a rate stored as a fraction (0.2) as a percentage.
func fraction(f decimal.Decimal) string { return f.Shift(2).StringFixed(2) + "%" }

// percent renders a rate stored as a percentage (8 for 8%).
func percent(p decimal.Decimal) string { return p.StringFixed(2) + "%" }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
