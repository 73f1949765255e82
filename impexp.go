package tranches

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and easy to diff.

// exportColumns is the canonical column order of the CSV export. The import
// side is more tolerant (see headerSynonyms); the export is always canonical.
var exportColumns = []string{
	colKind, colDate, colSymbol, colShares, colPrice,
	colDividend, colPerShare, colROCPercent, colROCAmount, colTaxable, colLot,
}

// ImportCSV reads a transaction table in CSV form: a header line followed by
// one row per event. It returns the resulting ledger together with the
// normalization diagnostics (skipped rows). A schema failure is fatal and
// yields no ledger at all.
func ImportCSV(r io.Reader, currency string) (*Ledger, *NormalizeResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read CSV input: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV input is empty, expected a header line")
	}

	result, err := Normalize(records[0], records[1:], currency)
	if err != nil {
		return nil, nil, err
	}

	ledger := NewLedger()
	ledger.Append(result.Events...)
	return ledger, result, nil
}

// ExportCSV writes the ledger as CSV in the canonical column order, events in
// chronological order. Monetary cells are bare amounts so the output
// re-imports losslessly.
func ExportCSV(w io.Writer, ledger *Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, e := range ledger.Events() {
		var row []string
		switch v := e.(type) {
		case BuyEvent:
			row = []string{string(EvBuy), v.Date.String(), v.Symbol,
				v.Shares.String(), v.Price.Plain(), "", "", "", "", "", v.LotID}
		case SellEvent:
			row = []string{string(EvSell), v.Date.String(), v.Symbol,
				v.Shares.String(), v.Price.Plain(), "", "", "", "", "", v.LotID}
		case DividendEvent:
			row = []string{string(EvDividend), v.Date.String(), v.Symbol, "", "",
				cell(v.Total), cell(v.PerShare), percentCell(v.ROCPercent),
				cell(v.ROCAmount), cell(v.Taxable), ""}
		default:
			return fmt.Errorf("cannot export event kind %q", e.What())
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// cell renders a monetary value, empty when unset.
func cell(m Money) string {
	if m.IsZero() {
		return ""
	}
	return m.Plain()
}

// percentCell renders a ROC ratio, empty when unset.
func percentCell(p Percent) string {
	if p == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(p), 'g', -1, 64)
}
