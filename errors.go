package tranches

import "fmt"

// MissingColumnError reports a required column absent from a source header.
// It is fatal: no events are produced from a source whose schema is wrong.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q is missing from the header", e.Column)
}

// MalformedRowError reports a row whose fields could not be parsed. It is
// recoverable: the row is skipped, counted, and the run continues.
type MalformedRowError struct {
	Line  int    // 1-based source line of the offending row.
	Field string // Canonical name of the field that failed to parse.
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: cannot parse field %q: %v", e.Line, e.Field, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// UnknownLotError reports a sell that cannot be attributed to any tranche
// established by a prior buy. It is fatal for that symbol's ledger.
type UnknownLotError struct {
	Symbol string
	LotID  string // empty when no identifier could be resolved at all
	Date   Date
}

func (e *UnknownLotError) Error() string {
	if e.LotID == "" {
		return fmt.Sprintf("sell of %s on %s: no tranche established by a prior buy", e.Symbol, e.Date)
	}
	return fmt.Sprintf("sell of %s on %s: tranche %q was never established by a buy", e.Symbol, e.Date, e.LotID)
}

// OverSellError reports a sell larger than the remaining shares of its
// tranche. The input is rejected rather than clamped: a negative remaining
// share count is a data error, not a state.
type OverSellError struct {
	LotID     string
	Date      Date
	Requested Quantity
	Remaining Quantity
}

func (e *OverSellError) Error() string {
	return fmt.Sprintf("sell on %s: tranche %q holds %s shares, cannot sell %s",
		e.Date, e.LotID, e.Remaining, e.Requested)
}
