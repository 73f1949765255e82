package tranches

import (
	"fmt"
	"iter"
)

// TrancheStatus describes the lifecycle state of a tranche.
type TrancheStatus int

const (
	// Open means no share of the tranche has been sold yet.
	Open TrancheStatus = iota
	// Partial means some, but not all, shares have been sold.
	Partial
	// Closed means every share has been sold. Closed is terminal: a tranche
	// never reopens.
	Closed
)

func (s TrancheStatus) String() string {
	switch s {
	case Open:
		return "open"
	case Partial:
		return "partial"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// movement is a signed share delta on a tranche, kept so that the remaining
// share count can be recomputed as of any past date.
type movement struct {
	on     Date
	shares Quantity // positive for buys, negative for sells
}

// Tranche is the running state of a single tax lot, accumulated by replaying
// the buy and sell events that reference it. The replay in [Replay] is the
// only writer of share counts and basis; the allocator only adds to the
// cumulative income and ROC buckets through addDistribution.
type Tranche struct {
	id     string
	symbol string

	acquisitionDate Date     // earliest buy date contributing to the lot
	sharesBought    Quantity // total shares over all contributing buys
	sharesSold      Quantity
	costBasis       Money // sum of shares x price over contributing buys
	lastSalePrice   Money

	cumulativeIncome Money // taxable income allocated from distributions
	cumulativeROC    Money // return of capital allocated from distributions

	movements []movement
}

// ID returns the tranche identifier.
func (t *Tranche) ID() string { return t.id }

// Symbol returns the security symbol of the tranche.
func (t *Tranche) Symbol() string { return t.symbol }

// AcquisitionDate returns the earliest buy date contributing to the tranche.
func (t *Tranche) AcquisitionDate() Date { return t.acquisitionDate }

func (t *Tranche) SharesBought() Quantity { return t.sharesBought }
func (t *Tranche) SharesSold() Quantity   { return t.sharesSold }
func (t *Tranche) CostBasis() Money       { return t.costBasis }
func (t *Tranche) LastSalePrice() Money   { return t.lastSalePrice }

// CumulativeIncome returns the taxable income allocated to the tranche so far.
func (t *Tranche) CumulativeIncome() Money { return t.cumulativeIncome }

// CumulativeROC returns the return of capital allocated to the tranche so far.
func (t *Tranche) CumulativeROC() Money { return t.cumulativeROC }

// SharesRemaining returns sharesBought - sharesSold.
func (t *Tranche) SharesRemaining() Quantity { return t.sharesBought.Sub(t.sharesSold) }

// RemainingAsOf recomputes the remaining share count using only the buys and
// sells dated on or before the given day. Allocation uses this, not the final
// post-run count: a distribution must see the lot as it was on its date.
func (t *Tranche) RemainingAsOf(on Date) Quantity {
	var remaining Quantity
	for _, m := range t.movements {
		if m.on.After(on) {
			break
		}
		remaining = remaining.Add(m.shares)
	}
	return remaining
}

// Status derives the lifecycle state from the share counts.
func (t *Tranche) Status() TrancheStatus {
	remaining := t.SharesRemaining()
	switch {
	case remaining.IsZero():
		return Closed
	case remaining.LessThan(t.sharesBought):
		return Partial
	default:
		return Open
	}
}

// AverageBuyPrice returns costBasis / sharesBought.
func (t *Tranche) AverageBuyPrice() Money {
	if t.sharesBought.IsZero() {
		return Money{}
	}
	return t.costBasis.Div(t.sharesBought)
}

// addDistribution accumulates a distribution split onto the tranche.
// It is the only mutation the allocator performs on a tranche.
func (t *Tranche) addDistribution(income, roc Money) {
	t.cumulativeIncome = t.cumulativeIncome.Add(income)
	t.cumulativeROC = t.cumulativeROC.Add(roc)
}

// seqKey disambiguates same-day buys of the same symbol when deriving
// tranche identifiers.
type seqKey struct {
	symbol string
	date   Date
}

// Book is the tranche table reconstructed from a ledger. Tranches are never
// deleted, only marked Closed by their share counts.
type Book struct {
	tranches map[string]*Tranche
	order    []string          // tranche ids in creation order
	seq      map[seqKey]int    // next sequence letter per (symbol, buy date)
	lastLot  map[string]string // most recent tranche id established per symbol
}

// NewBook creates an empty tranche book.
func NewBook() *Book {
	return &Book{
		tranches: make(map[string]*Tranche),
		seq:      make(map[seqKey]int),
		lastLot:  make(map[string]string),
	}
}

// Replay reconstructs the tranche book from the ledger's buy and sell events,
// processed in chronological order with same-day ties broken by source order.
// Dividend events are ignored here; they are the allocator's concern.
func Replay(l *Ledger) (*Book, error) {
	b := NewBook()
	for _, e := range l.Events() {
		var err error
		switch v := e.(type) {
		case BuyEvent:
			err = b.buy(v)
		case SellEvent:
			err = b.sell(v)
		}
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// buy resolves or creates the tranche for a buy event and accumulates shares
// and cost.
func (b *Book) buy(e BuyEvent) error {
	id := e.LotID
	if id == "" {
		id = b.deriveID(e.Symbol, e.Date)
	}

	t, ok := b.tranches[id]
	if !ok {
		t = &Tranche{id: id, symbol: e.Symbol, acquisitionDate: e.Date}
		b.tranches[id] = t
		b.order = append(b.order, id)
	}
	if t.symbol != e.Symbol {
		return fmt.Errorf("buy of %s on %s: tranche %q belongs to %s", e.Symbol, e.Date, id, t.symbol)
	}
	if t.Status() == Closed && t.sharesSold.IsPositive() {
		// Closed is terminal; a buy must open a new tranche instead.
		return fmt.Errorf("buy of %s on %s: tranche %q is closed and cannot reopen", e.Symbol, e.Date, id)
	}

	t.sharesBought = t.sharesBought.Add(e.Shares)
	t.costBasis = t.costBasis.Add(e.Cost())
	if e.Date.Before(t.acquisitionDate) {
		t.acquisitionDate = e.Date
	}
	t.movements = append(t.movements, movement{on: e.Date, shares: e.Shares})
	b.lastLot[e.Symbol] = id
	return nil
}

// sell resolves the tranche a sale applies to and accumulates the sold shares.
// Without an explicit lot id the sale resolves to the most recent tranche
// established for the symbol; it never infers a FIFO order across lots.
func (b *Book) sell(e SellEvent) error {
	id := e.LotID
	if id == "" {
		id = b.lastLot[e.Symbol]
		if id == "" {
			return &UnknownLotError{Symbol: e.Symbol, Date: e.Date}
		}
	}

	t, ok := b.tranches[id]
	if !ok || t.symbol != e.Symbol {
		return &UnknownLotError{Symbol: e.Symbol, LotID: id, Date: e.Date}
	}

	remaining := t.SharesRemaining()
	if e.Shares.GreaterThan(remaining) {
		return &OverSellError{LotID: id, Date: e.Date, Requested: e.Shares, Remaining: remaining}
	}

	t.sharesSold = t.sharesSold.Add(e.Shares)
	t.lastSalePrice = e.Price
	t.movements = append(t.movements, movement{on: e.Date, shares: e.Shares.Neg()})
	return nil
}

// deriveID builds the deterministic tranche identifier
// SYMBOL_YYMMDD_X where X is a sequence letter per (symbol, date).
func (b *Book) deriveID(symbol string, on Date) string {
	key := seqKey{symbol: symbol, date: on}
	n := b.seq[key]
	b.seq[key]++
	return fmt.Sprintf("%s_%s_%s", symbol, on.Compact(), sequenceLetter(n))
}

// sequenceLetter maps 0,1,2,... to A,B,C,...,Z,AA,AB,... like spreadsheet columns.
func sequenceLetter(n int) string {
	letters := ""
	for {
		letters = string(rune('A'+n%26)) + letters
		n = n/26 - 1
		if n < 0 {
			return letters
		}
	}
}

// Tranche returns the tranche with the given id, or nil if unknown.
func (b *Book) Tranche(id string) *Tranche {
	return b.tranches[id]
}

// Len returns the number of tranches in the book.
func (b *Book) Len() int { return len(b.order) }

// Tranches returns an iterator over all tranches in creation order.
func (b *Book) Tranches() iter.Seq[*Tranche] {
	return func(yield func(*Tranche) bool) {
		for _, id := range b.order {
			if !yield(b.tranches[id]) {
				return
			}
		}
	}
}

// openLotsAsOf returns the tranches of a symbol that still held shares on the
// given day, in creation order.
func (b *Book) openLotsAsOf(symbol string, on Date) []*Tranche {
	var open []*Tranche
	for t := range b.Tranches() {
		if t.symbol != symbol {
			continue
		}
		if t.RemainingAsOf(on).IsPositive() {
			open = append(open, t)
		}
	}
	return open
}
