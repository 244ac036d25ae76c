package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type convertCmd struct {
	output
	pps      moneyFlag
	premoney moneyFlag
	fd       sharesFlag
	on       dateFlag
	class    string
	dryRun   bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a SAFE or a note in a priced round" }
func (*convertCmd) Usage() string {
	return `ctb convert -pps <amount> -premoney <amount> [-fd <shares>] [-d <date>] [-class <id>] [-n] <convertible-id>

  Converts a SAFE or a convertible note of the cap table into shares of a
  priced round. The conversion price is the lowest of the round price, the
  discounted price and the cap price. Note interest accrues until the closing
  date.

  -fd is the pre-round fully diluted share count the cap applies to. When
  unset it is implied as pre-money valuation over price per share.

  The new shares are recorded in the cap table unless -n is set.

Usage Examples:
$ ctb convert -pps 1.00 -premoney 8M -d 2025-06-30 safe-1
$ ctb convert -pps 1.00 -premoney 8M -n -q '$.sharesIssued' safe-1
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.Var(&c.pps, "pps", "price per share of the round")
	f.Var(&c.premoney, "premoney", "pre-money valuation of the round")
	f.Var(&c.fd, "fd", "pre-round fully diluted shares")
	f.Var(&c.on, "d", "closing date of the round (default today)")
	f.StringVar(&c.class, "class", "common", "security class of the shares issued")
	f.BoolVar(&c.dryRun, "n", false, "dry run, do not record the conversion")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return failf("Error: convert expects exactly one convertible id\n")
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}

	terms := captable.RoundTerms{
		PricePerShare:     c.pps.Money,
		PreMoneyValuation: c.premoney.Money,
		PreRoundShares:    c.fd.Quantity,
		Date:              c.on.get(),
	}
	n, conv, err := t.Convert(f.Arg(0), terms, c.class)
	if err != nil {
		return failf("Error converting %q: %v\n", f.Arg(0), err)
	}
	if !c.dryRun {
		if status := save(conf, n); status != subcommands.ExitSuccess {
			return status
		}
	}
	return c.print(conv, func() string { return renderer.ConversionMarkdown(conv, t.Currency) }, conf.Plain)
}
