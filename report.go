package tranches

import (
	"time"
)

// AnchorSunday requests Sunday-anchored weeks. time.Sunday is the zero
// Weekday and therefore means "unset" in ReportOptions.
const AnchorSunday = time.Weekday(7)

// ReportOptions configures a pipeline run. The zero value is usable: the
// report date defaults to today, the week anchor to Monday, prices to a
// lookup that always misses, and the clock to time.Now.
type ReportOptions struct {
	AsOf       Date             // report date for holding periods
	WeekAnchor time.Weekday     // anchor day of aggregation weeks, AnchorSunday for Sunday
	Prices     PriceLookup      // symbol to current price; nil misses everything
	Now        func() time.Time // clock for the GeneratedAt stamp
	Skipped    int              // rows skipped by the normalizer, surfaced as-is
}

// Report is the fully recomputed snapshot of one pipeline run. Apart from
// GeneratedAt, rebuilding a report from an unchanged ledger with the same
// options yields identical output.
type Report struct {
	GeneratedAt time.Time
	AsOf        Date

	Tranches    []TrancheRow
	Allocations []Allocation
	Weekly      []WeeklyRow
	Unallocated []UnallocatedDividend
	SkippedRows int
}

// BuildReport runs the whole pipeline in one synchronous pass: replay the
// ledger into the tranche book, allocate every dividend, evaluate basis and
// gains against current prices, and aggregate weekly and year-to-date totals.
func BuildReport(l *Ledger, opts ReportOptions) (*Report, error) {
	if opts.AsOf.IsZero() {
		opts.AsOf = Today()
	}
	switch opts.WeekAnchor {
	case time.Sunday:
		opts.WeekAnchor = time.Monday
	case AnchorSunday:
		opts.WeekAnchor = time.Sunday
	}
	if opts.Prices == nil {
		opts.Prices = func(string) Money { return Money{} }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}

	book, err := Replay(l)
	if err != nil {
		return nil, err
	}

	allocator := NewAllocator(book)
	if err := allocator.Run(l); err != nil {
		return nil, err
	}

	aggregator := NewAggregator(opts.WeekAnchor)
	aggregator.Add(allocator.Allocations()...)

	return &Report{
		GeneratedAt: opts.Now(),
		AsOf:        opts.AsOf,
		Tranches:    SnapshotTranches(book, opts.Prices, opts.AsOf),
		Allocations: allocator.Allocations(),
		Weekly:      aggregator.Rows(),
		Unallocated: allocator.Unallocated(),
		SkippedRows: opts.Skipped,
	}, nil
}
