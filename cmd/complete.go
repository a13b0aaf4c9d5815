package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the fa command line, derived
// from the flags of every subcommand.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
		}
	}
	if convert, ok := root.Sub["convert"]; ok {
		convert.Args = predict.Files("*.md")
	}
	return root
}

// flags predicts the values of every flag in fs.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		m[f.Name] = predictor(f)
	})
	return m
}

func predictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "config", "frontmatter":
		return predict.Files("*")
	case "o":
		return predict.Files("*.csv")
	case "log-level":
		return predict.Set{"debug", "info", "warn", "error"}
	default:
		return predict.Something
	}
}
