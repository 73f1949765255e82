package tranches

import (
	"github.com/shopspring/decimal"
)

// Allocation is the finest-grained output of the engine: the slice of one
// dividend event attributed to one tranche open on the distribution date.
type Allocation struct {
	Date   Date
	Symbol string
	LotID  string

	Shares       Quantity // remaining shares of the tranche on the dividend date
	Distribution Money    // this tranche's slice of the gross distribution
	Taxable      Money    // taxable-income component of the slice
	ROC          Money    // return-of-capital component of the slice
}

// UnallocatedDividend records a dividend that found no open tranche on its
// date. It is a diagnostic, not an error: the amounts are surfaced so the
// distribution is never silently dropped.
type UnallocatedDividend struct {
	Date         Date
	Symbol       string
	Distribution Money
	Taxable      Money
	ROC          Money
}

// Allocator splits dividend events pro-rata across the tranches open on the
// distribution date and accumulates the cumulative income and ROC buckets of
// each tranche. It never creates or resizes tranches.
//
// Each dividend event must be processed exactly once per run: the allocation
// is additive, so reprocessing an event would double-count. The allocator
// performs no deduplication; the caller guarantees a clean event log.
type Allocator struct {
	book        *Book
	allocations []Allocation
	unallocated []UnallocatedDividend
}

// NewAllocator creates an allocator writing into the given tranche book.
func NewAllocator(book *Book) *Allocator {
	return &Allocator{book: book}
}

// Run processes every dividend event of the ledger, in chronological order,
// exactly once.
func (a *Allocator) Run(l *Ledger) error {
	for _, e := range l.Events() {
		div, ok := e.(DividendEvent)
		if !ok {
			continue
		}
		if err := a.Process(div); err != nil {
			return err
		}
	}
	return nil
}

// Process allocates a single dividend event across the tranches of its
// symbol that were still holding shares on the event date.
func (a *Allocator) Process(e DividendEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}

	open := a.book.openLotsAsOf(e.Symbol, e.Date)

	var eligible Quantity
	for _, t := range open {
		eligible = eligible.Add(t.RemainingAsOf(e.Date))
	}

	// The gross amount is explicit, or per-share scaled by the eligible shares.
	total := e.Total
	if total.IsZero() {
		total = e.PerShare.Mul(eligible)
	}

	// ROC is explicit when the source supplies an amount, otherwise derived
	// from the ratio. Taxable is authoritative when supplied, else total - ROC.
	roc := e.ROCAmount
	if roc.IsZero() && e.ROCPercent != 0 {
		roc = total.MulDec(decimal.NewFromFloat(float64(e.ROCPercent)))
	}
	taxable := e.Taxable
	if taxable.IsZero() {
		taxable = total.Sub(roc)
	}

	if len(open) == 0 {
		a.unallocated = append(a.unallocated, UnallocatedDividend{
			Date:         e.Date,
			Symbol:       e.Symbol,
			Distribution: total,
			Taxable:      taxable,
			ROC:          roc,
		})
		return nil
	}

	// Pro-rata split on remaining-at-date shares. The last tranche takes the
	// rounding residue so that the per-lot slices always sum back to the
	// event amounts exactly.
	var spentTotal, spentTaxable, spentROC Money
	for i, t := range open {
		remaining := t.RemainingAsOf(e.Date)

		var lotTotal, lotTaxable, lotROC Money
		if i == len(open)-1 {
			lotTotal = total.Sub(spentTotal)
			lotTaxable = taxable.Sub(spentTaxable)
			lotROC = roc.Sub(spentROC)
		} else {
			ratio := remaining.Ratio(eligible)
			lotTotal = total.MulDec(ratio)
			lotTaxable = taxable.MulDec(ratio)
			lotROC = roc.MulDec(ratio)
			spentTotal = spentTotal.Add(lotTotal)
			spentTaxable = spentTaxable.Add(lotTaxable)
			spentROC = spentROC.Add(lotROC)
		}

		t.addDistribution(lotTaxable, lotROC)
		a.allocations = append(a.allocations, Allocation{
			Date:         e.Date,
			Symbol:       e.Symbol,
			LotID:        t.ID(),
			Shares:       remaining,
			Distribution: lotTotal,
			Taxable:      lotTaxable,
			ROC:          lotROC,
		})
	}
	return nil
}

// Allocations returns every per-dividend-per-lot row produced so far, in
// processing order.
func (a *Allocator) Allocations() []Allocation { return a.allocations }

// Unallocated returns the dividends that found no open tranche.
func (a *Allocator) Unallocated() []UnallocatedDividend { return a.unallocated }
