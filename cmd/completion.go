package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/profiles"
	"github.com/etnz/profiles/docs"
)

// flagPredictors are the value predictors of flags, by flag name.
var flagPredictors = map[string]complete.Predictor{
	"type":          predict.Set{"income", "balance", "cash"},
	"metrics":       predict.Set(metricNames()),
	"config":        predict.Files("*.yaml"),
	"position":      predict.Set(profiles.MarketPositionOptions.Values()),
	"supply-chain":  predict.Set(profiles.SupplyChainControlOptions.Values()),
	"category":      predict.Set(profiles.IndustryCategoryOptions.Values()),
	"concentration": predict.Set(profiles.ConcentrationOptions.Values()),
	"barrier":       predict.Set(profiles.BarrierOptions.Values()),
}

func metricNames() []string {
	names := make([]string, 0, len(profiles.Metrics))
	for _, m := range profiles.Metrics {
		names = append(names, m.Name)
	}
	return names
}

// Completion returns the shell completion of cmds, derived from their flags.
func Completion(cmds []subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	for _, c := range cmds {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs)}
		switch c.Name() {
		case "upload":
			sub.Args = predict.Files("*.json")
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(append(topics, docs.Index))
		}
		root.Sub[c.Name()] = sub
	}
	root.Sub["help"] = &complete.Command{Args: predict.Set(commandNames(cmds))}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	out := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			out[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			out[f.Name] = predict.Nothing
			return
		}
		out[f.Name] = predict.Something
	})
	return out
}

func commandNames(cmds []subcommands.Command) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name())
	}
	return names
}
