package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tranches/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("tl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI for shell completion. It only triggers
// when the shell asks for completions, and is a no-op otherwise.
func completion() *complete.Command {
	days := predict.Set{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"quotes-file": predict.Files("*.jsonl"),
			"quote-url":   predict.Nothing,
			"quote-path":  predict.Nothing,
			"currency":    predict.Set{"USD", "EUR", "GBP"},
		},
		Sub: map[string]*complete.Command{
			"import": {Flags: map[string]complete.Predictor{
				"i":       predict.Files("*.csv"),
				"dry-run": predict.Nothing,
			}},
			"export": {Flags: map[string]complete.Predictor{
				"o": predict.Files("*.csv"),
			}},
			"fmt": {},
			"lots": {Flags: map[string]complete.Predictor{
				"d": predict.Nothing,
				"w": predict.Nothing,
			}},
			"weekly": {Flags: map[string]complete.Predictor{
				"d":      predict.Nothing,
				"anchor": days,
			}},
			"allocations": {Flags: map[string]complete.Predictor{
				"d": predict.Nothing,
			}},
			"topic": {Args: predict.Set{"readme", "ledger", "allocation", "reporting"}},
		},
	}
}
