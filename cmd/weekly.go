package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tranches/renderer"
	"github.com/google/subcommands"
)

type weeklyCmd struct {
	date   string
	anchor string
}

func (*weeklyCmd) Name() string     { return "weekly" }
func (*weeklyCmd) Synopsis() string { return "display weekly and year-to-date distribution totals" }
func (*weeklyCmd) Usage() string {
	return `tl weekly [-d <date>] [-anchor <day>]

  Groups dividend allocations by week and symbol, with per-week income
  and return of capital, all-symbol weekly totals, and running
  year-to-date sums. Year-to-date sums reset each calendar year.
`
}

func (c *weeklyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "End date for the report period (defaults to today)")
	f.StringVar(&c.anchor, "anchor", "monday", "First day of the aggregation week")
}

func (c *weeklyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	anchor, err := parseAnchor(c.anchor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := BuildReport(c.date, anchor, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.WeeklyMarkdown(report))
	return subcommands.ExitSuccess
}
