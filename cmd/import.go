package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tranches"
	"github.com/google/subcommands"
)

type importCmd struct {
	inputFile string
	dryRun    bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a CSV export" }
func (*importCmd) Usage() string {
	return `tl import -i <file.csv> [-dry-run]

  Reads a CSV export from a broker or a spreadsheet, normalizes its rows
  into buy, sell and dividend events, and appends them to the ledger.
  Header names are matched loosely; rows that cannot be parsed are
  skipped and counted.

Usage Examples:
# Append the recognized rows of statement.csv to the ledger.
$ tl import -i statement.csv

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputFile, "i", "", "CSV file to import")
	f.BoolVar(&c.dryRun, "dry-run", false, "parse and report only, do not touch the ledger")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -i <file.csv> is required")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(c.inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.inputFile, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	imported, result, err := tranches.ImportCSV(in, *defaultCurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", c.inputFile, err)
		return subcommands.ExitFailure
	}

	for _, skip := range result.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", skip)
	}

	if c.dryRun {
		fmt.Printf("Would import %d events (%d rows skipped)\n", imported.Len(), result.SkippedCount())
		return subcommands.ExitSuccess
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, e := range imported.Events() {
		ledger.Append(e)
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: imported events do not validate: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d events into %s (%d rows skipped)\n", imported.Len(), *ledgerFile, result.SkippedCount())
	return subcommands.ExitSuccess
}
