package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type grantCmd struct {
	id        string
	holder    string
	plan      string
	awardType string
	quantity  sharesFlag
	strike    moneyFlag
	on        dateFlag
	start     dateFlag
	cliff     int
	months    int
}

func (*grantCmd) Name() string     { return "grant" }
func (*grantCmd) Synopsis() string { return "grant an option, RSU or warrant" }
func (*grantCmd) Usage() string {
	return `ctb grant -holder <id> -quantity <shares> [-plan <id>] [-type ISO|NSO|RSU|warrant] [-strike <amount>] [-d <date>] [-start <date>] [-cliff <months>] [-months <months>] [-id <award-id>]

  Records a new equity award. Awards granted from a plan allocate their
  quantity from the plan's available pool. Vesting starts on the grant date
  unless -start is set.

Usage Examples:
$ ctb grant -id g-carol -holder carol -plan 2024-plan -quantity 100k -strike 0.50 -d 2024-01-01
`
}

func (c *grantCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "award id (default a new unique id)")
	f.StringVar(&c.holder, "holder", "", "holder of the award")
	f.StringVar(&c.plan, "plan", "", "option plan the award is granted from")
	f.StringVar(&c.awardType, "type", string(captable.ISO), "award type: ISO, NSO, RSU or warrant")
	f.Var(&c.quantity, "quantity", "units granted")
	f.Var(&c.strike, "strike", "strike price per unit")
	f.Var(&c.on, "d", "grant date (default today)")
	f.Var(&c.start, "start", "vesting start date (default the grant date)")
	f.IntVar(&c.cliff, "cliff", 12, "cliff, in months")
	f.IntVar(&c.months, "months", 48, "total vesting period, in months")
}

func (c *grantCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.holder == "" {
		return failf("Error: -holder is required\n")
	}
	if !c.quantity.IsPositive() {
		return failf("Error: -quantity must be positive\n")
	}
	typ, err := captable.ParseAwardType(c.awardType)
	if err != nil {
		return failf("Error: %v\n", err)
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}

	granted := c.on.get()
	start := granted
	if !c.start.IsZero() {
		start = c.start.Date
	}
	a := captable.EquityAward{
		ID:               c.id,
		HolderID:         c.holder,
		PlanID:           c.plan,
		Type:             typ,
		QuantityGranted:  c.quantity.Quantity,
		GrantDate:        granted,
		VestingStartDate: start,
		CliffMonths:      c.cliff,
		TotalMonths:      c.months,
		StrikePrice:      c.strike.Money,
	}
	n, err := t.Grant(a)
	if err != nil {
		return failf("Error granting award: %v\n", err)
	}
	if status := save(conf, n); status != subcommands.ExitSuccess {
		return status
	}
	awarded := n.Awards[len(n.Awards)-1]
	fmt.Fprintf(stdout, "Granted %v %s to %s as award %s.\n", awarded.QuantityGranted, awarded.Type, awarded.HolderID, awarded.ID)
	return subcommands.ExitSuccess
}
