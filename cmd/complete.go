package cmd

import (
	"flag"

	"github.com/etnz/captable/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the ctb command line, built
// from the flags of every subcommand.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*.yaml"),
			"captable": predict.Files("*.jsonl"),
			"plain":    predict.Nothing,
		},
	}
	for _, g := range groups() {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = flagPredictor(f) })
			root.Sub[c.Name()] = sub
		}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func flagPredictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "type":
		return predict.Set{"ISO", "NSO", "RSU", "warrant"}
	case "by":
		return predict.Set{"monthly", "quarterly", "yearly"}
	case "ratio":
		return predict.Set{"2:1", "3:1", "1:10"}
	default:
		return predict.Something
	}
}
