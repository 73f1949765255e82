package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tl fmt

  Validates and formats the ledger file. This command reads all events,
  validates them, sorts them by date, and writes them back in a
  canonical JSONL format.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: ledger does not validate: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %s.\n", *ledgerFile)
	return subcommands.ExitSuccess
}
