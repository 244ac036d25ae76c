package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type splitCmd struct {
	output
	ratio  string
	on     dateFlag
	dryRun bool
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "apply a stock split to the cap table" }
func (*splitCmd) Usage() string {
	return `ctb split -ratio <num:den> [-d <date>] [-n]

  Applies a forward (2:1) or reverse (1:10) stock split to every share entry,
  award and option plan. Strike prices are divided by the ratio, while the
  contractual terms of convertibles and security classes are unchanged.
  The split is refused if the total ownership is not preserved.

  The split is recorded in the cap table unless -n is set.

Usage Examples:
$ ctb split -ratio 2:1 -d 2025-01-01
$ ctb split -ratio 1-for-10 -n -q '$.totalAfter'
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.ratio, "ratio", "", "split ratio, new shares for old shares, e.g. 2:1 or 1:10")
	f.Var(&c.on, "d", "effective date (default today)")
	f.BoolVar(&c.dryRun, "n", false, "dry run, do not record the split")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	num, den, err := parseRatio(c.ratio)
	if err != nil {
		return failf("Error: %v\n", err)
	}
	terms, err := captable.NewSplitTerms(num, den, c.on.get())
	if err != nil {
		return failf("Error: %v\n", err)
	}
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	n, err := t.ApplySplit(terms)
	if err != nil {
		return failf("Error applying split: %v\n", err)
	}
	if !c.dryRun {
		if status := save(conf, n); status != subcommands.ExitSuccess {
			return status
		}
	}
	report := captable.NewSplitReport(t.Entries, n.Entries, terms)
	return c.print(report, func() string { return renderer.SplitMarkdown(report) }, conf.Plain)
}
