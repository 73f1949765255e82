package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tranches"
)

// TranchesMarkdown renders the tranche snapshot as a markdown table.
func TranchesMarkdown(report *tranches.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tranche Snapshot as of %s\n\n", report.AsOf)

	fmt.Fprintln(&b, "| Lot | Symbol | Acquired | Held | Status | Remaining | Cost Basis | ROC | Adj. Basis | Mkt Value | Unrealized | Realized | To Exit |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|:---|---:|---:|---:|---:|---:|---:|---:|---:|")

	for _, row := range report.Tranches {
		held := "-"
		if row.HasHeld {
			held = fmt.Sprintf("%dd", row.HeldDays)
		}
		realized := "-"
		if row.HasRealized {
			realized = row.RealizedGain.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.ID,
			row.Symbol,
			row.AcquisitionDate,
			held,
			row.Status,
			row.SharesRemaining,
			row.CostBasis,
			row.CumulativeROC,
			row.AdjustedBasis,
			row.MarketValue,
			row.UnrealizedGain.SignedString(),
			realized,
			row.PercentToExit,
		)
	}

	renderDiagnostics(&b, report)
	return b.String()
}

// renderDiagnostics appends the skipped-row count and the unallocated
// dividends, when any.
func renderDiagnostics(b *strings.Builder, report *tranches.Report) {
	if report.SkippedRows > 0 {
		fmt.Fprintf(b, "\n%d malformed row(s) were skipped during import.\n", report.SkippedRows)
	}

	if len(report.Unallocated) == 0 {
		return
	}
	fmt.Fprint(b, "\n## Unallocated Distributions\n\n")
	fmt.Fprintln(b, "| Date | Symbol | Distribution | Taxable | ROC |")
	fmt.Fprintln(b, "|:---|:---|---:|---:|---:|")
	for _, u := range report.Unallocated {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			u.Date, u.Symbol, u.Distribution, u.Taxable, u.ROC)
	}
}
