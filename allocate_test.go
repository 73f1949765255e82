package tranches

import (
	"testing"
)

// replayAndAllocate is a helper running the replay and the allocator over a ledger.
func replayAndAllocate(t *testing.T, ledger *Ledger) (*Book, *Allocator) {
	t.Helper()
	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	a := NewAllocator(book)
	if err := a.Run(ledger); err != nil {
		t.Fatalf("Allocator.Run() error = %v", err)
	}
	return book, a
}

func TestAllocate_SingleLotROCSplit(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(50), 0.40),
	)
	book, a := replayAndAllocate(t, ledger)

	allocs := a.Allocations()
	if len(allocs) != 1 {
		t.Fatalf("got %d allocations, want 1", len(allocs))
	}
	al := allocs[0]
	if al.LotID != "ABC_240101_A" {
		t.Errorf("LotID = %q", al.LotID)
	}
	if !al.Distribution.Equal(USD(50)) {
		t.Errorf("Distribution = %v, want $50", al.Distribution)
	}
	if !al.ROC.Equal(USD(20)) {
		t.Errorf("ROC = %v, want $20 (40%% of $50)", al.ROC)
	}
	if !al.Taxable.Equal(USD(30)) {
		t.Errorf("Taxable = %v, want $30", al.Taxable)
	}

	tr := book.Tranche("ABC_240101_A")
	if !tr.CumulativeROC().Equal(USD(20)) {
		t.Errorf("CumulativeROC = %v, want $20", tr.CumulativeROC())
	}
	if !tr.CumulativeIncome().Equal(USD(30)) {
		t.Errorf("CumulativeIncome = %v, want $30", tr.CumulativeIncome())
	}
}

func TestAllocate_ProRataAcrossLots(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(60), USD(10), ""),
		NewBuy(day("2024-01-15"), "ABC", Q(40), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(100), 0),
	)
	_, a := replayAndAllocate(t, ledger)

	allocs := a.Allocations()
	if len(allocs) != 2 {
		t.Fatalf("got %d allocations, want 2", len(allocs))
	}
	if !allocs[0].Distribution.Equal(USD(60)) {
		t.Errorf("first lot slice = %v, want $60", allocs[0].Distribution)
	}
	if !allocs[1].Distribution.Equal(USD(40)) {
		t.Errorf("second lot slice = %v, want $40", allocs[1].Distribution)
	}
}

func TestAllocate_SlicesSumExactly(t *testing.T) {
	// Three equal lots splitting $100: no cent may leak through rounding.
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(1), USD(10), ""),
		NewBuy(day("2024-01-02"), "ABC", Q(1), USD(10), ""),
		NewBuy(day("2024-01-03"), "ABC", Q(1), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(100), 0.40),
	)
	_, a := replayAndAllocate(t, ledger)

	var total, taxable, roc Money
	for _, al := range a.Allocations() {
		total = total.Add(al.Distribution)
		taxable = taxable.Add(al.Taxable)
		roc = roc.Add(al.ROC)
	}
	if !total.Equal(USD(100)) {
		t.Errorf("sum of slices = %v, want exactly $100", total)
	}
	if !roc.Equal(USD(40)) {
		t.Errorf("sum of ROC slices = %v, want exactly $40", roc)
	}
	if !taxable.Equal(USD(60)) {
		t.Errorf("sum of taxable slices = %v, want exactly $60", taxable)
	}
}

func TestAllocate_ClosedLotExcluded(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(60), USD(10), ""),
		NewBuy(day("2024-01-15"), "ABC", Q(40), USD(10), ""),
		NewSell(day("2024-01-20"), "ABC", Q(40), USD(11), "ABC_240115_A"),
		NewDividend(day("2024-02-01"), "ABC", USD(90), 0),
	)
	_, a := replayAndAllocate(t, ledger)

	allocs := a.Allocations()
	if len(allocs) != 1 {
		t.Fatalf("got %d allocations, want 1 (closed lot excluded)", len(allocs))
	}
	if allocs[0].LotID != "ABC_240101_A" {
		t.Errorf("LotID = %q, want the surviving lot", allocs[0].LotID)
	}
	if !allocs[0].Distribution.Equal(USD(90)) {
		t.Errorf("Distribution = %v, want the full $90", allocs[0].Distribution)
	}
}

func TestAllocate_EligibilityIsAsOfDividendDate(t *testing.T) {
	// The lot is sold after the dividend date: it was still eligible.
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewDividend(day("2024-02-01"), "ABC", USD(50), 0),
		NewSell(day("2024-03-01"), "ABC", Q(100), USD(11), ""),
	)
	_, a := replayAndAllocate(t, ledger)

	allocs := a.Allocations()
	if len(allocs) != 1 {
		t.Fatalf("got %d allocations, want 1", len(allocs))
	}
	if !allocs[0].Shares.Equal(Q(100)) {
		t.Errorf("eligible shares = %v, want 100 as of the dividend date", allocs[0].Shares)
	}
}

func TestAllocate_Unallocated(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewDividend(day("2024-02-01"), "GHO", USD(25), 0.10),
	)
	_, a := replayAndAllocate(t, ledger)

	if len(a.Allocations()) != 0 {
		t.Errorf("got %d allocations, want 0", len(a.Allocations()))
	}
	un := a.Unallocated()
	if len(un) != 1 {
		t.Fatalf("got %d unallocated dividends, want 1", len(un))
	}
	if un[0].Symbol != "GHO" || !un[0].Distribution.Equal(USD(25)) {
		t.Errorf("Unallocated = %+v", un[0])
	}
	if !un[0].ROC.Equal(USD(2.5)) {
		t.Errorf("Unallocated ROC = %v, want $2.50", un[0].ROC)
	}
}

func TestAllocate_PerShareDividend(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(80), USD(10), ""),
		NewDividendPerShare(day("2024-02-01"), "ABC", USD(0.25), 0),
	)
	_, a := replayAndAllocate(t, ledger)

	allocs := a.Allocations()
	if len(allocs) != 1 {
		t.Fatalf("got %d allocations, want 1", len(allocs))
	}
	if !allocs[0].Distribution.Equal(USD(20)) {
		t.Errorf("Distribution = %v, want $0.25 x 80 = $20", allocs[0].Distribution)
	}
}

func TestAllocate_ExplicitTaxableIsAuthoritative(t *testing.T) {
	ledger := NewLedger()
	div := NewDividend(day("2024-02-01"), "ABC", USD(50), 0)
	div.ROCAmount = USD(20)
	div.Taxable = USD(28) // broker-reported, does not equal total - ROC
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		div,
	)
	_, a := replayAndAllocate(t, ledger)

	al := a.Allocations()[0]
	if !al.Taxable.Equal(USD(28)) {
		t.Errorf("Taxable = %v, want the broker-reported $28", al.Taxable)
	}
	if !al.ROC.Equal(USD(20)) {
		t.Errorf("ROC = %v, want the explicit $20", al.ROC)
	}
}

func TestAllocate_RejectsInvalidDividend(t *testing.T) {
	book := NewBook()
	a := NewAllocator(book)

	// No amount at all.
	bad := DividendEvent{baseEvent: baseEvent{Kind: EvDividend, Date: day("2024-02-01"), Symbol: "ABC"}}
	if err := a.Process(bad); err == nil {
		t.Error("Process() accepted a dividend without any amount")
	}

	// ROC ratio out of range.
	bad = NewDividend(day("2024-02-01"), "ABC", USD(50), 1.5)
	if err := a.Process(bad); err == nil {
		t.Error("Process() accepted a ROC ratio above 1")
	}
}
