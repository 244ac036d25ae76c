package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type ppsCmd struct {
	output
	valuation     moneyFlag
	fd            sharesFlag
	consideration moneyFlag
	quantity      sharesFlag
	override      moneyFlag
	toleranceBps  int
}

func (*ppsCmd) Name() string     { return "pps" }
func (*ppsCmd) Synopsis() string { return "reconcile the price per share of a round" }
func (*ppsCmd) Usage() string {
	return `ctb pps [-valuation <amount> [-fd <shares>]] [-consideration <amount> -quantity <shares>] [-override <amount>]

  Computes the price per share from the pre-money valuation over the pre-round
  fully diluted shares, and from the cash paid over the shares bought. When
  both are known and diverge by more than the tolerance, the conflict is
  reported. An override always wins.

  -fd defaults to the fully diluted shares of the cap table.

Usage Examples:
$ ctb pps -valuation 10M -consideration 1M -quantity 1.1M
$ ctb pps -valuation 10M -fd 8M -q '$.value'
`
}

func (c *ppsCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.Var(&c.valuation, "valuation", "pre-money valuation")
	f.Var(&c.fd, "fd", "pre-round fully diluted shares")
	f.Var(&c.consideration, "consideration", "cash paid in the round")
	f.Var(&c.quantity, "quantity", "shares bought in the round")
	f.Var(&c.override, "override", "price per share entered explicitly")
	f.IntVar(&c.toleranceBps, "tolerance", -1, "divergence tolerated between the sources, in basis points (default from configuration)")
}

func (c *ppsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := settings()
	if err != nil {
		return failf("Error loading configuration: %v\n", err)
	}
	fd := c.fd.Quantity
	if fd.IsZero() && c.valuation.IsPositive() {
		_, t, status := load()
		if status != subcommands.ExitSuccess {
			return status
		}
		fd = t.FullyDilutedShares()
	}

	in := captable.PpsInputs{
		Override:     c.override.Money,
		ToleranceBps: tolerance(c.toleranceBps, conf.ToleranceBps),
	}
	in.FromValuation, _ = captable.DerivePpsFromValuation(c.valuation.Money, fd)
	in.FromConsideration, _ = captable.DerivePpsFromConsideration(c.consideration.Money, c.quantity.Quantity)
	res := captable.ReconcilePps(in)

	return c.print(res, func() string { return renderer.PpsMarkdown(res, conf.Currency) }, conf.Plain)
}

type valuationCmd struct {
	output
	pps           moneyFlag
	fd            sharesFlag
	consideration moneyFlag
	quantity      sharesFlag
	override      moneyFlag
	toleranceBps  int
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "reconcile the valuation of a company" }
func (*valuationCmd) Usage() string {
	return `ctb valuation [-pps <amount>] [-consideration <amount> -quantity <shares>] [-fd <shares>] [-override <amount>]

  Computes the company valuation from the price per share, and from the cash
  paid for a number of shares, both times the fully diluted shares. When both
  are known and diverge by more than the tolerance, the conflict is reported.
  An override always wins.

  -fd defaults to the fully diluted shares of the cap table.

Usage Examples:
$ ctb valuation -pps 1.25 -consideration 2.2M -quantity 2M -fd 8M
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.Var(&c.pps, "pps", "price per share")
	f.Var(&c.fd, "fd", "fully diluted shares")
	f.Var(&c.consideration, "consideration", "cash paid")
	f.Var(&c.quantity, "quantity", "shares bought")
	f.Var(&c.override, "override", "valuation entered explicitly")
	f.IntVar(&c.toleranceBps, "tolerance", -1, "divergence tolerated between the sources, in basis points (default from configuration)")
}

func (c *valuationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := settings()
	if err != nil {
		return failf("Error loading configuration: %v\n", err)
	}
	fd := c.fd.Quantity
	if fd.IsZero() {
		_, t, status := load()
		if status != subcommands.ExitSuccess {
			return status
		}
		fd = t.FullyDilutedShares()
	}

	in := captable.ValuationInputs{
		Override:     c.override.Money,
		ToleranceBps: tolerance(c.toleranceBps, conf.ToleranceBps),
	}
	in.FromPps, _ = captable.DeriveValuationFromPps(c.pps.Money, fd)
	in.FromConsideration, _ = captable.DeriveValuationFromConsideration(c.consideration.Money, c.quantity.Quantity, fd)
	res := captable.ReconcileValuation(in)

	return c.print(res, func() string { return renderer.ValuationMarkdown(res, conf.Currency) }, conf.Plain)
}

// tolerance returns the flag value, or the configured one when unset.
func tolerance(flagBps, confBps int) int {
	if flagBps < 0 {
		return confBps
	}
	return flagBps
}
