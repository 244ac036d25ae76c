package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// printMarkdown renders markdown for the terminal, or prints it raw when
// plain is set or rendering fails.
func printMarkdown(w io.Writer, doc string, plain bool) {
	if plain {
		fmt.Fprint(w, doc)
		return
	}
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		fmt.Fprint(w, doc)
		return
	}
	fmt.Fprint(w, out)
}

// output holds the flags shared by the commands printing a result.
type output struct {
	json  bool
	query string
}

func (o *output) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.json, "json", false, "print the result as JSON")
	f.StringVar(&o.query, "q", "", "print only the value at this JSONPath of the result, e.g. $.sharesIssued")
}

// print writes the result v, as JSON when requested, as the markdown
// document otherwise.
func (o *output) print(v any, markdown func() string, plain bool) subcommands.ExitStatus {
	var err error
	switch {
	case o.query != "":
		err = printQuery(stdout, v, o.query)
	case o.json:
		err = printJSON(stdout, v)
	default:
		printMarkdown(stdout, markdown(), plain)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error printing result: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printQuery prints the value found at path in v's JSON. Strings are
// printed bare, anything else as JSON.
func printQuery(w io.Writer, v any, path string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return err
	}
	res, err := jsonpath.Get(path, jobj)
	if err != nil {
		return fmt.Errorf("query %q: %w", path, err)
	}
	// filters return a list, a single match is unwrapped.
	if list, ok := res.([]any); ok && len(list) == 1 {
		res = list[0]
	}
	if s, ok := res.(string); ok {
		_, err = fmt.Fprintln(w, s)
		return err
	}
	data, err = json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
