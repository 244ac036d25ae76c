package docs

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Executable fenced blocks. A "bash setup" block starts a new scenario in a
// fresh directory, "bash run" records its output for the following
// "console check", and "bash check" must simply succeed.
const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	bashCheck    = "bash check"
	consoleCheck = "console check"
)

// readmeTopic matches the "* topic: summary" lines of readme.md.
var readmeTopic = regexp.MustCompile(`(?m)^\*\s+([^:\n]+):`)

func TestTopics(t *testing.T) {
	readme, err := os.ReadFile("readme.md")
	require.NoError(t, err)
	var listed []string
	for _, m := range readmeTopic.FindAllSubmatch(readme, -1) {
		listed = append(listed, strings.TrimSpace(string(m[1])))
	}

	for _, topic := range listed {
		_, err := GetTopic(topic)
		assert.NoError(t, err, "topic %q listed in readme.md", topic)
	}

	topics, err := GetAllTopics()
	require.NoError(t, err)
	for _, topic := range topics {
		assert.True(t, slices.Contains(listed, topic), "topic %q is not listed in readme.md", topic)
	}
}

func TestTitles(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"captable":   "The cap table file",
		"conversion": "Converting SAFEs and notes",
		"pricing":    "Price per share and valuation",
		"split":      "Stock splits",
		"vesting":    "Vesting",
	}
	if len(topics) != len(want) {
		t.Errorf("GetAllTopics() = %v, want %d topics", topics, len(want))
	}
	for _, topic := range topics {
		got, err := Title(topic)
		if err != nil {
			t.Errorf("Title(%q) error: %v", topic, err)
			continue
		}
		if got != want[topic] {
			t.Errorf("Title(%q) = %q, want %q", topic, got, want[topic])
		}
	}
}

// TestCodeBlocks runs the examples of every topic and of the README against
// the ctb binary, and compares their output with the documented one.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)
	files = append(files, "../README.md")

	bin := buildCtb(t, t.TempDir())
	env := append(os.Environ(),
		"PATH="+filepath.Dir(bin)+string(os.PathListSeparator)+os.Getenv("PATH"),
		// raw markdown, and no cap table or tolerance leaking from the caller.
		"CTB_PLAIN=true",
		"CTB_CAPTABLE=captable.jsonl",
		"CTB_TOLERANCE_BPS=50",
		"CTB_CURRENCY=USD",
	)

	for _, file := range files {
		for _, s := range scenarios(t, file) {
			t.Run(s.name, func(t *testing.T) { s.run(t, env) })
		}
	}
}

// buildCtb builds the ctb command in dir and returns the binary path.
func buildCtb(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "ctb")
	out, err := exec.Command("go", "build", "-o", bin, "../ctb/").CombinedOutput()
	require.NoError(t, err, "building ctb:\n%s", out)
	return bin
}

// block is an executable fenced block of a markdown file.
type block struct {
	kind string
	body string
	line int
}

// scenario is a setup block and the blocks that follow it, up to the next
// setup.
type scenario struct {
	name   string
	file   string
	blocks []block
}

// scenarios reads the executable blocks of a markdown file.
func scenarios(t *testing.T, file string) []*scenario {
	t.Helper()
	source, err := os.ReadFile(file)
	require.NoError(t, err)

	var res []*scenario
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		b := block{kind: string(fcb.Info.Segment.Value(source))}
		if !slices.Contains([]string{bashSetup, bashRun, bashCheck, consoleCheck}, b.kind) {
			return ast.WalkContinue, nil
		}
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(source))
		}
		b.body = body.String()
		b.line = bytes.Count(source[:fcb.Info.Segment.Start], []byte("\n")) + 1

		if b.kind == bashSetup || len(res) == 0 {
			res = append(res, &scenario{name: filepath.Base(file) + ":" + strconv.Itoa(b.line), file: file})
		}
		s := res[len(res)-1]
		s.blocks = append(s.blocks, b)
		return ast.WalkContinue, nil
	})
	return res
}

// run executes the scenario blocks in order, in a fresh directory.
func (s *scenario) run(t *testing.T, env []string) {
	dir := t.TempDir()
	var last string
	for _, b := range s.blocks {
		where := s.file + ":" + strconv.Itoa(b.line)
		if b.kind == consoleCheck {
			got := strings.ReplaceAll(strings.TrimSpace(last), "\t", "        ")
			assert.Equal(t, strings.TrimSpace(b.body), got, "%s: output mismatch", where)
			continue
		}

		cmd := exec.Command("bash", "-c", "set -e; "+b.body)
		cmd.Dir, cmd.Env = dir, env
		out, err := cmd.CombinedOutput()
		if b.kind == bashRun {
			last = string(out)
		}
		if b.kind == bashCheck {
			assert.NoError(t, err, "%s: %s\n%s", where, b.kind, out)
			continue
		}
		require.NoError(t, err, "%s: %s\n%s", where, b.kind, out)
	}
}
