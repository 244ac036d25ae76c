package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type vestCmd struct {
	output
	on dateFlag
	by string
}

// vestingStatus is the JSON result of the vest command.
type vestingStatus struct {
	Award       string                  `json:"award"`
	Holder      string                  `json:"holder"`
	AsOf        captable.Date           `json:"asOf"`
	Granted     captable.Quantity       `json:"granted"`
	Vested      captable.Quantity       `json:"vested"`
	Unvested    captable.Quantity       `json:"unvested"`
	Outstanding captable.Quantity       `json:"outstanding"`
	Schedule    []captable.VestingEvent `json:"schedule"`
}

func (*vestCmd) Name() string     { return "vest" }
func (*vestCmd) Synopsis() string { return "show the vesting status of an award" }
func (*vestCmd) Usage() string {
	return `ctb vest [-d <date>] [-by monthly|quarterly|yearly] <award-id>

  Shows the vested and unvested units of an award on a date, and its vesting
  schedule. Nothing vests before the cliff, then the months elapsed vest
  linearly until the end of the schedule. With -by, the schedule is
  summarized by period.

Usage Examples:
$ ctb vest -d 2025-07-01 g-carol
$ ctb vest -d 2025-07-01 -q '$.vested' g-carol
$ ctb vest -by yearly g-carol
`
}

func (c *vestCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.Var(&c.on, "d", "date of the status (default today)")
	f.StringVar(&c.by, "by", "", "summarize the schedule by period: monthly, quarterly or yearly")
}

func (c *vestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return failf("Error: vest expects exactly one award id\n")
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	a, ok := t.Award(f.Arg(0))
	if !ok {
		return failf("Error: unknown award %q\n", f.Arg(0))
	}

	schedule := captable.VestingSchedule(a)
	if c.by != "" {
		p, err := date.ParsePeriod(c.by)
		if err != nil {
			return failf("Error: %v\n", err)
		}
		schedule = captable.VestingScheduleBy(a, p)
	}

	on := c.on.get()
	res := vestingStatus{
		Award:       a.ID,
		Holder:      a.HolderID,
		AsOf:        on,
		Granted:     a.QuantityGranted,
		Vested:      captable.VestedShares(a, on),
		Unvested:    captable.UnvestedShares(a, on),
		Outstanding: a.Outstanding(),
		Schedule:    schedule,
	}
	return c.print(res, func() string { return renderer.VestingMarkdown(a, on, schedule, t.Currency) }, conf.Plain)
}
