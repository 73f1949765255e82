package tranches

// PriceLookup resolves a symbol to its current market price. A lookup miss
// returns the zero price, not an error.
type PriceLookup func(symbol string) Money

// TrancheRow is the reporting view of one tranche: the replayed lot state
// joined with the basis and gain arithmetic evaluated against current prices.
type TrancheRow struct {
	ID              string
	Symbol          string
	AcquisitionDate Date
	Status          TrancheStatus

	SharesBought    Quantity
	SharesSold      Quantity
	SharesRemaining Quantity

	CostBasis        Money
	CumulativeIncome Money
	CumulativeROC    Money
	AdjustedBasis    Money   // costBasis - cumulativeROC
	ConsumedBasis    Percent // cumulativeROC / costBasis, 0 when costBasis is 0

	CurrentPrice   Money
	MarketValue    Money // sharesRemaining x currentPrice
	UnrealizedGain Money // marketValue - adjustedBasis

	RealizedGain Money // (lastSalePrice - averageBuyPrice) x sharesSold
	HasRealized  bool  // false when nothing was sold: RealizedGain is undefined

	// PercentToExit is the fraction of principal lost if sold now:
	// clamp((adjustedBasis - marketValue) / adjustedBasis, 0, 1).
	// Cumulative income is deliberately ignored here; the figure measures
	// principal recovery only.
	PercentToExit Percent
	ExitReady     bool // marketValue covers the adjusted basis

	HeldDays int  // whole days from acquisition to the report date
	HasHeld  bool // false when the tranche has no acquisition date
}

// NewTrancheRow computes the basis and gain figures for one tranche. It is a
// pure function of the tranche, a price lookup, and the report date; it is
// evaluated at report time, never during ledger replay.
func NewTrancheRow(t *Tranche, prices PriceLookup, on Date) TrancheRow {
	row := TrancheRow{
		ID:              t.ID(),
		Symbol:          t.Symbol(),
		AcquisitionDate: t.AcquisitionDate(),
		Status:          t.Status(),

		SharesBought:    t.SharesBought(),
		SharesSold:      t.SharesSold(),
		SharesRemaining: t.SharesRemaining(),

		CostBasis:        t.CostBasis(),
		CumulativeIncome: t.CumulativeIncome(),
		CumulativeROC:    t.CumulativeROC(),
	}

	row.AdjustedBasis = row.CostBasis.Sub(row.CumulativeROC)
	if !row.CostBasis.IsZero() {
		row.ConsumedBasis = Percent(row.CumulativeROC.AsFloat() / row.CostBasis.AsFloat())
	}

	if prices != nil {
		row.CurrentPrice = prices(t.Symbol())
	}
	row.MarketValue = row.CurrentPrice.Mul(row.SharesRemaining)
	row.UnrealizedGain = row.MarketValue.Sub(row.AdjustedBasis)

	if t.SharesSold().IsPositive() {
		row.RealizedGain = t.LastSalePrice().Sub(t.AverageBuyPrice()).Mul(t.SharesSold())
		row.HasRealized = true
	}

	if row.AdjustedBasis.IsPositive() {
		shortfall := row.AdjustedBasis.Sub(row.MarketValue)
		row.PercentToExit = Percent(shortfall.AsFloat() / row.AdjustedBasis.AsFloat()).Clamp()
	}
	row.ExitReady = row.MarketValue.GreaterThanOrEqual(row.AdjustedBasis)

	if !t.AcquisitionDate().IsZero() {
		row.HeldDays = on.DaysSince(t.AcquisitionDate())
		row.HasHeld = true
	}

	return row
}

// SnapshotTranches computes the reporting rows for every tranche of the book,
// in creation order.
func SnapshotTranches(book *Book, prices PriceLookup, on Date) []TrancheRow {
	rows := make([]TrancheRow, 0, book.Len())
	for t := range book.Tranches() {
		rows = append(rows, NewTrancheRow(t, prices, on))
	}
	return rows
}
