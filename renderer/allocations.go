package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tranches"
)

// AllocationsMarkdown renders the per-dividend-per-lot allocation rows, the
// finest-grained output of the engine.
func AllocationsMarkdown(report *tranches.Report) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Distribution Allocations\n\n")

	if len(report.Allocations) == 0 {
		fmt.Fprintln(&b, "No distribution has been allocated.")
		renderDiagnostics(&b, report)
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Symbol | Lot | Shares | Distribution | Taxable | ROC |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	for _, al := range report.Allocations {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			al.Date,
			al.Symbol,
			al.LotID,
			al.Shares,
			al.Distribution,
			al.Taxable,
			al.ROC,
		)
	}

	renderDiagnostics(&b, report)
	return b.String()
}
