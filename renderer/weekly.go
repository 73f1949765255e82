package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tranches"
)

// WeeklyMarkdown renders the weekly and year-to-date aggregates as markdown
// tables, one section per calendar year.
func WeeklyMarkdown(report *tranches.Report) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Weekly Distributions\n")

	year := 0
	for _, row := range report.Weekly {
		if row.Week.Year() != year {
			year = row.Week.Year()
			fmt.Fprintf(&b, "\n## %d\n\n", year)
			fmt.Fprintln(&b, "| Week | Symbol | Events | Shares | Distribution | /Share | Taxable | ROC | Week (all) | YTD | YTD (all) |")
			fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.Week,
			row.Symbol,
			row.Events,
			row.SharesEligible,
			row.Distribution,
			row.IncomePerShare,
			row.Taxable,
			row.ROC,
			row.WeekAllDistribution,
			row.YTDDistribution,
			row.YTDAllDistribution,
		)
	}

	ConditionalBlock(&b, func(w io.Writer) bool { return renderWeeklyTotals(w, report) })
	return b.String()
}

// renderWeeklyTotals prints the final year-to-date line per year, when there
// is anything to sum.
func renderWeeklyTotals(w io.Writer, report *tranches.Report) bool {
	if len(report.Weekly) == 0 {
		return false
	}

	fmt.Fprint(w, "\n## Year Totals\n\n")
	fmt.Fprintln(w, "| Year | Distribution | Taxable | ROC |")
	fmt.Fprintln(w, "|:---|---:|---:|---:|")
	// Rows are in ascending week order; the last row of each year carries
	// that year's final running sums.
	for i, row := range report.Weekly {
		if i+1 < len(report.Weekly) && report.Weekly[i+1].Week.Year() == row.Week.Year() {
			continue
		}
		fmt.Fprintf(w, "| %d | %s | %s | %s |\n",
			row.Week.Year(), row.YTDAllDistribution, row.YTDAllTaxable, row.YTDAllROC)
	}
	return true
}
