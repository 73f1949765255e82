// Package tranches tracks purchases, sales and dividend distributions of
// securities held in discrete tranches (tax lots), and allocates each
// distribution's taxable-income and return-of-capital components across the
// lots open on the distribution date.
//
// The core functionalities include:
//   - Ledger Management: Recording buy, sell and dividend events in an
//     immutable, chronological record.
//   - Tranche Replay: Reconstructing per-lot state (shares bought, shares
//     sold, remaining shares, status) from the ordered event log.
//   - Distribution Allocation: Splitting each dividend's income and ROC
//     pro-rata across all lots still open on the distribution date.
//   - Basis & Gain Reporting: Adjusted basis, consumed-basis ratio, market
//     value, realized and unrealized gain, holding period.
//   - Weekly/YTD Aggregation: Per-(week, symbol) totals with running
//     year-to-date sums per symbol and across all symbols.
//   - Data Persistence: Encoding and decoding the event log to and from a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `tl` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth: the transaction log. The whole pipeline is a synchronous
// batch computation; every run recomputes a full snapshot from scratch.
package tranches
