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

type allocationsCmd struct {
	date string
}

func (*allocationsCmd) Name() string     { return "allocations" }
func (*allocationsCmd) Synopsis() string { return "display per-dividend, per-lot allocation slices" }
func (*allocationsCmd) Usage() string {
	return `tl allocations [-d <date>]

  Displays the raw pro-rata slices of every dividend distribution, one
  row per lot per dividend, useful for checking a single distribution
  against a broker statement.
`
}

func (c *allocationsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (defaults to today)")
}

func (c *allocationsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	report, err := BuildReport(c.date, time.Monday, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.AllocationsMarkdown(report))
	return subcommands.ExitSuccess
}
