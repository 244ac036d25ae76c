// Package cmd implements the ctb command line: cap table maintenance and
// the valuation and conversion calculators.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/etnz/captable"
	"github.com/etnz/captable/config"
	"github.com/google/subcommands"
)

// group is a set of subcommands listed together by the help command.
type group struct {
	name     string
	commands []subcommands.Command
}

func groups() []group {
	return []group{
		{"pricing", []subcommands.Command{&ppsCmd{}, &valuationCmd{}}},
		{"convertibles", []subcommands.Command{&convertCmd{}}},
		{"awards", []subcommands.Command{&grantCmd{}, &vestCmd{}, &exerciseCmd{}, &cancelCmd{}}},
		{"capitalization", []subcommands.Command{&reportCmd{}, &splitCmd{}, &fmtCmd{}}},
		{"help", []subcommands.Command{&topicCmd{}}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", ".ctb.yaml", "Path to the configuration file (YAML or JSON)")
var capTableFile = flag.String("captable", "", "Path to the cap table file (JSONL format), overrides the configuration")
var plainOutput = flag.Bool("plain", false, "Print raw markdown instead of styled terminal output")

// stdout and stderr are swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// settings returns the configuration, with the global flags applied.
func settings() (config.Config, error) {
	c, err := config.Load(*configFile)
	if err != nil {
		return c, err
	}
	if *capTableFile != "" {
		c.CapTableFile = *capTableFile
	}
	if *plainOutput {
		c.Plain = true
	}
	return c, nil
}

// DecodeCapTable loads the configured cap table file.
func DecodeCapTable(c config.Config) (*captable.CapTable, error) {
	f, err := os.Open(c.CapTableFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cap table %q does not exist, using an empty cap table instead", c.CapTableFile)
		return captable.NewCapTable("", c.Currency), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := captable.DecodeCapTable(f)
	if err != nil {
		return nil, fmt.Errorf("cap table %q: %w", c.CapTableFile, err)
	}
	if t.Currency == "" {
		t.Currency = c.Currency
	}
	return t, nil
}

// EncodeCapTable replaces the configured cap table file with t. The table
// is validated first: an invalid table is never written.
func EncodeCapTable(c config.Config, t *captable.CapTable) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("refusing to save an invalid cap table: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.CapTableFile), ".captable-*.jsonl")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := captable.EncodeCapTable(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.CapTableFile)
}

// load is the common prologue of the commands: settings then cap table.
func load() (config.Config, *captable.CapTable, subcommands.ExitStatus) {
	c, err := settings()
	if err != nil {
		return c, nil, failf("Error loading configuration: %v\n", err)
	}
	t, err := DecodeCapTable(c)
	if err != nil {
		return c, nil, failf("Error loading cap table: %v\n", err)
	}
	return c, t, subcommands.ExitSuccess
}

// save is the common epilogue of the mutating commands.
func save(c config.Config, t *captable.CapTable) subcommands.ExitStatus {
	if err := EncodeCapTable(c, t); err != nil {
		return failf("Error writing cap table %q: %v\n", c.CapTableFile, err)
	}
	return subcommands.ExitSuccess
}

// failf prints an error message and returns ExitFailure.
func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, format, args...)
	return subcommands.ExitFailure
}
