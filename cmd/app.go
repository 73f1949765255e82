// Package cmd implements the CLI application to manage a tranche ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tranches"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands lists the subcommands to register.
// A main package ranges over it and calls Register on each.
var Commands = []subcommands.Command{
	&importCmd{},
	&exportCmd{},
	&fmtCmd{},
	&lotsCmd{},
	&weeklyCmd{},
	&allocationsCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", env("TL_LEDGER_FILE", "ledger.jsonl"), "Path to the ledger file (JSONL format)")
var quotesFile = flag.String("quotes-file", env("TL_QUOTES_FILE", ""), "Path to a quotes file (JSONL format), empty to disable pricing")
var quoteURL = flag.String("quote-url", env("TL_QUOTE_URL", ""), "Quote endpoint with a %s placeholder for the symbol, empty to disable")
var quotePath = flag.String("quote-path", env("TL_QUOTE_PATH", "$.price"), "JSONPath of the price in the quote endpoint response")
var defaultCurrency = flag.String("currency", env("TL_CURRENCY", "USD"), "Currency for amounts that do not carry one")

func init() {
	// .env is optional, flags and OS environment take over when absent.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, could not load .env file:", err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DecodeLedger reads the app ledger file. A missing file is an empty ledger.
func DecodeLedger() (*tranches.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, using an empty ledger instead")
		return tranches.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return tranches.DecodeLedger(f)
}

// EncodeLedger writes the whole ledger back to the app ledger file in
// canonical form.
func EncodeLedger(ledger *tranches.Ledger) error {
	f, err := os.CreateTemp(filepath.Dir(*ledgerFile), ".ledger-*.jsonl")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	name := f.Name()
	if err := tranches.EncodeLedger(f, ledger); err != nil {
		f.Close()
		os.Remove(name)
		return fmt.Errorf("could not write ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, *ledgerFile)
}

// PriceLookup assembles the price source from the app flags: a quotes
// file when given, a quote endpoint when configured, otherwise nil.
func PriceLookup() (tranches.PriceLookup, error) {
	if *quotesFile != "" {
		f, err := os.Open(*quotesFile)
		if err != nil {
			return nil, fmt.Errorf("could not open quotes file %q: %w", *quotesFile, err)
		}
		defer f.Close()
		quotes, err := tranches.DecodeQuotes(f, *defaultCurrency)
		if err != nil {
			return nil, err
		}
		return tranches.StaticPrices(quotes), nil
	}
	if *quoteURL != "" {
		return tranches.NewQuoteService(*quoteURL, *quotePath, *defaultCurrency).Lookup(), nil
	}
	return nil, nil
}

// BuildReport runs the full pipeline against the app ledger file.
func BuildReport(asOf string, anchor time.Weekday, skipped int) (*tranches.Report, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, err
	}
	opts := tranches.ReportOptions{WeekAnchor: anchor, Skipped: skipped}
	if asOf != "" {
		on, err := tranches.ParseDate(asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", asOf, err)
		}
		opts.AsOf = on
	}
	opts.Prices, err = PriceLookup()
	if err != nil {
		return nil, err
	}
	return tranches.BuildReport(ledger, opts)
}

func parseAnchor(day string) (time.Weekday, error) {
	switch day {
	case "", "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	case "sunday":
		return tranches.AnchorSunday, nil
	}
	return time.Monday, fmt.Errorf("invalid week anchor %q", day)
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
