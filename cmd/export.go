package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tranches"
	"github.com/google/subcommands"
)

type exportCmd struct {
	outputFile string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as CSV" }
func (*exportCmd) Usage() string {
	return `tl export [-o <file.csv>]

  Writes the ledger as a CSV table with canonical headers, suitable for
  spreadsheets and for lossless re-import.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Output file (defaults to stdout)")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := os.Stdout
	if c.outputFile != "" {
		out, err = os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
	}

	if err := tranches.ExportCSV(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
