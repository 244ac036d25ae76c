package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the cap table file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ctb fmt

  Validates and formats the cap table file. This command reads all records,
  reports every problem found and, if there is none, writes them back in the
  canonical JSONL format: company, classes, plans, shares, awards and
  convertibles, with a fixed field order.

Usage Examples:
# Formats the configured cap table file.
$ ctb fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, t, status := load()
	if status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stderr, "Formatting cap table %q...\n", conf.CapTableFile)
	if status := save(conf, t); status != subcommands.ExitSuccess {
		return status
	}
	fmt.Fprintf(stderr, "✅ Successfully formatted cap table.\n")
	return subcommands.ExitSuccess
}
