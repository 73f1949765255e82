package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/tranches/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	date  string
	watch int
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display a snapshot of all tax lots" }
func (*lotsCmd) Usage() string {
	return `tl lots [-d <date>] [-w n]

  Displays one row per lot: shares bought, sold and remaining, cost and
  adjusted basis, cumulative income and return of capital, and the lot
  status. With a quote source configured the snapshot also shows market
  value and unrealized gain.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Snapshot date (defaults to today)")
	f.IntVar(&c.watch, "w", 0, "run every n seconds")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for {
		report, err := BuildReport(c.date, time.Monday, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if c.watch == 0 {
				return subcommands.ExitFailure
			}
		} else {
			if c.watch > 0 {
				fmt.Println("\033[2J")
			}
			printMarkdown(renderer.TranchesMarkdown(report))
		}

		if c.watch > 0 {
			time.Sleep(time.Duration(c.watch) * time.Second)
		} else {
			break
		}
	}
	return subcommands.ExitSuccess
}
