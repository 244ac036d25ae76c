package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acme = `{"kind":"company","name":"Acme","currency":"USD"}
{"kind":"class","id":"common","name":"Common","voting":true}
{"kind":"plan","id":"2024-plan","total":1000000,"available":1000000}
{"kind":"share","id":"s1","holder":"alice","class":"common","quantity":6000000,"issued":"2023-01-01"}
{"kind":"share","id":"s2","holder":"bob","class":"common","quantity":2000000,"issued":"2023-01-01"}
{"kind":"convertible","id":"safe-1","holder":"dave","type":"SAFE","principal":500000,"discount":0.2,"cap":6000000}
`

// withCapTable points the global flags to a temporary cap table file.
func withCapTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captable.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	oldConfig, oldCapTable, oldPlain := *configFile, *capTableFile, *plainOutput
	t.Cleanup(func() { *configFile, *capTableFile, *plainOutput = oldConfig, oldCapTable, oldPlain })
	*configFile = ""
	*capTableFile = path
	*plainOutput = true
	return path
}

// run executes a ctb command line and returns its standard output.
func run(t *testing.T, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()

	fs := flag.NewFlagSet("ctb", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "ctb")
	commander.Error = &errOut
	commander.Output = &errOut
	Register(commander)
	require.NoError(t, fs.Parse(args))

	status := commander.Execute(context.Background())
	if status != subcommands.ExitSuccess {
		t.Logf("ctb %s: %s", strings.Join(args, " "), errOut.String())
	}
	return out.String(), status
}

func readCapTable(t *testing.T, path string) *captable.CapTable {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	ct, err := captable.DecodeCapTable(f)
	require.NoError(t, err)
	return ct
}

func TestPpsCommand(t *testing.T) {
	withCapTable(t, acme)

	out, status := run(t, "pps", "-valuation", "10M", "-fd", "8M", "-json")
	require.Equal(t, subcommands.ExitSuccess, status)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1.25, res["value"])
	assert.Equal(t, "valuation", res["source"])
	assert.Equal(t, false, res["hasConflict"])

	// fully diluted shares of the cap table: 8M issued and a 1M pool.
	out, status = run(t, "pps", "-valuation", "9M", "-q", "$.value")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "1\n", out)

	out, status = run(t, "pps", "-valuation", "10M", "-fd", "8M", "-consideration", "1.1M", "-quantity", "800k", "-q", "$.hasConflict")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "true\n", out)

	out, status = run(t, "pps", "-valuation", "10M", "-fd", "8M", "-consideration", "1.1M", "-quantity", "800k", "-tolerance", "1500", "-q", "$.hasConflict")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "false\n", out)
}

func TestValuationCommand(t *testing.T) {
	withCapTable(t, acme)

	out, status := run(t, "valuation", "-pps", "1.25", "-fd", "8M", "-q", "$.value")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "10000000\n", out)

	out, status = run(t, "valuation", "-pps", "2", "-q", "$.value")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "18000000\n", out)

	out, status = run(t, "valuation", "-q", "$.source")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "unknown\n", out)
}

func TestConvertCommand(t *testing.T) {
	path := withCapTable(t, acme)

	out, status := run(t, "convert", "-pps", "1.00", "-premoney", "10M", "-d", "2024-01-01", "-n", "-q", "$.method", "safe-1")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "cap\n", out)
	assert.Len(t, readCapTable(t, path).Entries, 2, "a dry run does not record the conversion")

	out, status = run(t, "convert", "-pps", "1.00", "-premoney", "10M", "-d", "2024-01-01", "-q", "$.sharesIssued", "safe-1")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "833333.333333\n", out)

	ct := readCapTable(t, path)
	require.Len(t, ct.Entries, 3)
	assert.Equal(t, "dave", ct.Entries[2].HolderID)
	assert.True(t, ct.Entries[2].Quantity.Equal(captable.Q(833333.333333)))
	c, ok := ct.Convertible("safe-1")
	require.True(t, ok)
	assert.True(t, c.Converted)

	_, status = run(t, "convert", "-pps", "1.00", "-premoney", "10M", "safe-1")
	assert.Equal(t, subcommands.ExitFailure, status, "converts only once")

	_, status = run(t, "convert", "-pps", "1.00", "unknown")
	assert.Equal(t, subcommands.ExitFailure, status)

	_, status = run(t, "convert", "-pps", "1.00")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestAwardCommands(t *testing.T) {
	path := withCapTable(t, acme)

	out, status := run(t, "grant", "-id", "g-carol", "-holder", "carol", "-plan", "2024-plan", "-quantity", "100k", "-strike", "0.50", "-d", "2024-01-01")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "Granted 100000 ISO to carol as award g-carol.\n", out)

	out, status = run(t, "vest", "-d", "2025-07-01", "-q", "$.vested", "g-carol")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "37500\n", out)

	out, status = run(t, "vest", "-by", "yearly", "-q", "$.schedule[0].quantity", "g-carol")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "47916\n", out, "cliff and the 11 months after it")

	_, status = run(t, "vest", "-by", "weekly", "g-carol")
	assert.Equal(t, subcommands.ExitFailure, status)

	_, status = run(t, "exercise", "-d", "2025-07-01", "g-carol", "40k")
	assert.Equal(t, subcommands.ExitFailure, status, "only vested units can be exercised")

	out, status = run(t, "exercise", "-d", "2025-07-01", "g-carol", "10k")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Issued 10000 common shares to carol for $5,000.00")

	out, status = run(t, "cancel", "g-carol", "50k")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "Canceled 50000 of award g-carol, 40000 outstanding.\n", out)

	ct := readCapTable(t, path)
	p, ok := ct.Plan("2024-plan")
	require.True(t, ok)
	assert.True(t, p.AllocatedShares.Equal(captable.Q(40000)))
	assert.True(t, p.AvailableShares.Equal(captable.Q(950000)))
	assert.True(t, p.IssuedShares.Equal(captable.Q(10000)))
	require.NoError(t, ct.Validate())

	_, status = run(t, "grant", "-holder", "erin", "-plan", "2024-plan", "-quantity", "2M")
	assert.Equal(t, subcommands.ExitFailure, status, "more than the pool")

	_, status = run(t, "grant", "-holder", "erin", "-quantity", "1k", "-type", "bond")
	assert.Equal(t, subcommands.ExitFailure, status)

	_, status = run(t, "cancel", "g-carol")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestSplitCommand(t *testing.T) {
	path := withCapTable(t, acme)

	out, status := run(t, "split", "-ratio", "1:10", "-n", "-q", "$.totalAfter")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "800000\n", out)

	out, status = run(t, "split", "-ratio", "2-for-1", "-d", "2025-01-01", "-json")
	require.Equal(t, subcommands.ExitSuccess, status)
	var report captable.SplitReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Preserved)
	assert.True(t, report.TotalAfter.Equal(captable.Q(16000000)))
	require.Len(t, report.Holders, 2)
	assert.Equal(t, "alice", report.Holders[0].HolderID)
	assert.InDelta(t, 75.0, float64(report.Holders[0].OwnershipAfter), 0.001)

	ct := readCapTable(t, path)
	assert.True(t, ct.FullyDilutedShares().Equal(captable.Q(18000000)))
	c, _ := ct.Convertible("safe-1")
	assert.True(t, c.Principal.Equal(captable.M(500000)), "contractual terms are not split")

	_, status = run(t, "split", "-ratio", "0:1")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestReportCommand(t *testing.T) {
	withCapTable(t, acme)

	out, status := run(t, "report", "-q", "$.fullyDiluted")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "9000000\n", out)

	out, status = run(t, "report", "-q", "$.holdings[1].holder")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "bob\n", out)

	out, status = run(t, "report")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Capitalization of Acme")
	assert.Contains(t, out, "alice")

	out, status = run(t, "report", "-plan", "2024-plan", "-q", "$.total")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "1000000\n", out)

	_, status = run(t, "report", "-plan", "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestFmtCommand(t *testing.T) {
	path := withCapTable(t, "\n"+acme+"\n")

	_, status := run(t, "fmt")
	require.Equal(t, subcommands.ExitSuccess, status)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, acme, string(got))

	invalid := acme + `{"kind":"share","id":"s3","holder":"carol","class":"preferred","quantity":10}` + "\n"
	path = withCapTable(t, invalid)
	_, status = run(t, "fmt")
	assert.Equal(t, subcommands.ExitFailure, status)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, invalid, string(got), "an invalid cap table is left untouched")
}

func TestMissingCapTable(t *testing.T) {
	path := withCapTable(t, "")
	require.NoError(t, os.Remove(path))

	out, status := run(t, "report", "-q", "$.fullyDiluted")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "0\n", out)

	out, status = run(t, "report", "-q", "$.currency")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "USD\n", out)
}

func TestTopicCommand(t *testing.T) {
	withCapTable(t, "")

	out, status := run(t, "topic", "-l")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "vesting")

	out, status = run(t, "topic", "split")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "# Stock splits")

	_, status = run(t, "topic", "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestPrintQuery(t *testing.T) {
	v := map[string]any{
		"name":  "Acme",
		"price": captable.M(1.25),
		"holders": []map[string]any{
			{"id": "alice", "shares": 6000000},
			{"id": "bob", "shares": 2000000},
		},
	}
	tests := []struct {
		path string
		want string
	}{
		{"$.name", "Acme\n"},
		{"$.price", "1.25\n"},
		{"$.holders[1].id", "bob\n"},
		{"$.holders[?(@.shares > 5000000)].id", "alice\n"},
		{"$.holders[*].id", `["alice","bob"]` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printQuery(&out, v, tt.path))
			assert.Equal(t, tt.want, out.String())
		})
	}

	var out bytes.Buffer
	assert.Error(t, printQuery(&out, v, "$.missing"))
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in       string
		num, den int64
		wantErr  bool
	}{
		{in: "2:1", num: 2, den: 1},
		{in: "1:10", num: 1, den: 10},
		{in: "3-for-2", num: 3, den: 2},
		{in: " 4 ", num: 4, den: 1},
		{in: "2:1:1", wantErr: true},
		{in: "two:1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			num, den, err := parseRatio(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.num, num)
			assert.Equal(t, tt.den, den)
		})
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for name := range map[string]bool{"pps": true, "convert": true, "split": true, "topic": true} {
		require.Contains(t, c.Sub, name)
	}
	assert.Contains(t, c.Sub["convert"].Flags, "premoney")
	assert.Contains(t, c.Sub["convert"].Flags, "json")
	assert.Contains(t, c.Sub["grant"].Flags, "type")
	assert.NotNil(t, c.Sub["topic"].Args)
}
