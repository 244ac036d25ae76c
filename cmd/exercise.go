package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type exerciseCmd struct {
	on    dateFlag
	class string
}

func (*exerciseCmd) Name() string     { return "exercise" }
func (*exerciseCmd) Synopsis() string { return "exercise vested options, or release vested RSUs" }
func (*exerciseCmd) Usage() string {
	return `ctb exercise [-d <date>] [-class <id>] <award-id> <quantity>

  Exercises vested units of an award. The shares are issued to the holder at
  the strike price and, for awards granted from a plan, move from allocated to
  issued in the plan.

Usage Examples:
$ ctb exercise -d 2025-07-01 g-carol 10k
`
}

func (c *exerciseCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.on, "d", "exercise date (default today)")
	f.StringVar(&c.class, "class", "common", "security class of the shares issued")
}

func (c *exerciseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, q, status := awardQuantityArgs("exercise", f)
	if status != subcommands.ExitSuccess {
		return status
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	n, entry, err := t.Exercise(id, q, c.on.get(), c.class)
	if err != nil {
		return failf("Error exercising award %q: %v\n", id, err)
	}
	if status := save(conf, n); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stdout, "Issued %v %s shares to %s for %s (entry %s).\n",
		entry.Quantity, entry.ClassID, entry.HolderID, entry.Consideration.Format(t.Currency), entry.ID)
	return subcommands.ExitSuccess
}

type cancelCmd struct{}

func (*cancelCmd) Name() string     { return "cancel" }
func (*cancelCmd) Synopsis() string { return "cancel outstanding units of an award" }
func (*cancelCmd) Usage() string {
	return `ctb cancel <award-id> <quantity>

  Cancels outstanding units of an award, typically the unvested part at
  termination. Units granted from a plan return to its available pool.

Usage Examples:
$ ctb cancel g-carol 50k
`
}

func (c *cancelCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, q, status := awardQuantityArgs("cancel", f)
	if status != subcommands.ExitSuccess {
		return status
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	n, err := t.Cancel(id, q)
	if err != nil {
		return failf("Error canceling award %q: %v\n", id, err)
	}
	if status := save(conf, n); status != subcommands.ExitSuccess {
		return status
	}
	a, _ := n.Award(id)
	fmt.Fprintf(stdout, "Canceled %v of award %s, %v outstanding.\n", q, id, a.Outstanding())
	return subcommands.ExitSuccess
}

// awardQuantityArgs reads the <award-id> <quantity> arguments.
func awardQuantityArgs(name string, f *flag.FlagSet) (string, captable.Quantity, subcommands.ExitStatus) {
	if f.NArg() != 2 {
		return "", captable.Quantity{}, failf("Error: %s expects an award id and a quantity\n", name)
	}
	q, err := captable.ParseShares(f.Arg(1))
	if err != nil {
		return "", captable.Quantity{}, failf("Error: invalid quantity: %v\n", err)
	}
	return f.Arg(0), q, subcommands.ExitSuccess
}
