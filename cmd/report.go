package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	output
	plan string
}

// capitalization is the JSON result of the report command.
type capitalization struct {
	Name         string             `json:"name"`
	Currency     string             `json:"currency"`
	Outstanding  captable.Quantity  `json:"outstanding"`
	FullyDiluted captable.Quantity  `json:"fullyDiluted"`
	Pool         captable.Quantity  `json:"pool"`
	Holdings     []captable.Holding `json:"holdings"`
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show the capitalization table" }
func (*reportCmd) Usage() string {
	return `ctb report [-plan <id>]

  Shows every holder's issued shares and outstanding awards, with their
  ownership of the outstanding and fully diluted shares, followed by the
  security classes, option plans and unconverted instruments.
  With -plan, shows the share counters of a single option plan.

Usage Examples:
$ ctb report
$ ctb report -q '$.fullyDiluted'
$ ctb report -plan 2024-plan
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.plan, "plan", "", "report a single option plan")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	if c.plan != "" {
		p, ok := t.Plan(c.plan)
		if !ok {
			return failf("Error: unknown plan %q\n", c.plan)
		}
		return c.print(p, func() string { return renderer.PlanMarkdown(p) }, conf.Plain)
	}

	res := capitalization{
		Name:         t.Name,
		Currency:     t.Currency,
		Outstanding:  t.OutstandingShares(),
		FullyDiluted: t.FullyDilutedShares(),
		Pool:         t.AvailablePool(),
		Holdings:     t.Holdings(),
	}
	return c.print(res, func() string { return renderer.CapTableMarkdown(t) }, conf.Plain)
}
