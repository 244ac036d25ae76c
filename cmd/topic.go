package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `ctb topic [<topic>...]

  Show the documentation of the given topics, or of the readme.
  "ctb topic '*'" shows every topic, "ctb topic -l" lists them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "list the topics")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		return listTopics()
	}
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return failf("Error reading doc: %v\n", err)
	}
	printMarkdown(stdout, doc, *plainOutput)
	return subcommands.ExitSuccess
}

func listTopics() subcommands.ExitStatus {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return failf("Error listing topics: %v\n", err)
	}
	for _, topic := range topics {
		title, err := docs.Title(topic)
		if err != nil {
			return failf("Error reading topic %q: %v\n", topic, err)
		}
		fmt.Fprintf(stdout, "%-12s %s\n", topic, title)
	}
	return subcommands.ExitSuccess
}
