package tranches

import (
	"errors"
	"testing"
)

func TestSequenceLetter(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		if got := sequenceLetter(tt.n); got != tt.want {
			t.Errorf("sequenceLetter(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDeriveID(t *testing.T) {
	b := NewBook()
	on := day("2024-01-01")

	if got := b.deriveID("ABC", on); got != "ABC_240101_A" {
		t.Errorf("first id = %q, want ABC_240101_A", got)
	}
	if got := b.deriveID("ABC", on); got != "ABC_240101_B" {
		t.Errorf("second same-day id = %q, want ABC_240101_B", got)
	}
	// Another symbol or another day restarts the sequence.
	if got := b.deriveID("XYZ", on); got != "XYZ_240101_A" {
		t.Errorf("other symbol id = %q, want XYZ_240101_A", got)
	}
	if got := b.deriveID("ABC", day("2024-01-02")); got != "ABC_240102_A" {
		t.Errorf("next day id = %q, want ABC_240102_A", got)
	}
}

func TestReplay_BuySellLifecycle(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewSell(day("2024-02-01"), "ABC", Q(40), USD(12), ""),
	)

	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	tr := book.Tranche("ABC_240101_A")
	if tr == nil {
		t.Fatal("tranche ABC_240101_A not found")
	}
	if !tr.SharesRemaining().Equal(Q(60)) {
		t.Errorf("SharesRemaining() = %v, want 60", tr.SharesRemaining())
	}
	if !tr.CostBasis().Equal(USD(1000)) {
		t.Errorf("CostBasis() = %v, want $1000", tr.CostBasis())
	}
	if tr.Status() != Partial {
		t.Errorf("Status() = %v, want partial", tr.Status())
	}
	if !tr.LastSalePrice().Equal(USD(12)) {
		t.Errorf("LastSalePrice() = %v, want $12", tr.LastSalePrice())
	}

	// Selling the remainder closes the lot.
	ledger.Append(NewSell(day("2024-03-01"), "ABC", Q(60), USD(13), "ABC_240101_A"))
	book, err = Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() after closing sell error = %v", err)
	}
	if got := book.Tranche("ABC_240101_A").Status(); got != Closed {
		t.Errorf("Status() = %v, want closed", got)
	}
}

func TestReplay_SellResolvesToMostRecentLot(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewBuy(day("2024-02-01"), "ABC", Q(50), USD(11), ""),
		// No lot id: the sale comes out of the February lot, not FIFO.
		NewSell(day("2024-03-01"), "ABC", Q(30), USD(12), ""),
	)

	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got := book.Tranche("ABC_240101_A").SharesRemaining(); !got.Equal(Q(100)) {
		t.Errorf("January lot remaining = %v, want untouched 100", got)
	}
	if got := book.Tranche("ABC_240201_A").SharesRemaining(); !got.Equal(Q(20)) {
		t.Errorf("February lot remaining = %v, want 20", got)
	}
}

func TestReplay_SellUnknownLot(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewSell(day("2024-02-01"), "ABC", Q(10), USD(12), "ABC_240101_B"),
	)

	_, err := Replay(ledger)
	var unknown *UnknownLotError
	if !errors.As(err, &unknown) {
		t.Fatalf("Replay() error = %v, want UnknownLotError", err)
	}
	if unknown.LotID != "ABC_240101_B" {
		t.Errorf("UnknownLotError.LotID = %q", unknown.LotID)
	}
}

func TestReplay_SellWithoutAnyLot(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(NewSell(day("2024-02-01"), "ABC", Q(10), USD(12), ""))

	_, err := Replay(ledger)
	var unknown *UnknownLotError
	if !errors.As(err, &unknown) {
		t.Fatalf("Replay() error = %v, want UnknownLotError", err)
	}
}

func TestReplay_OverSell(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewSell(day("2024-02-01"), "ABC", Q(101), USD(12), ""),
	)

	_, err := Replay(ledger)
	var oversell *OverSellError
	if !errors.As(err, &oversell) {
		t.Fatalf("Replay() error = %v, want OverSellError", err)
	}
	if !oversell.Requested.Equal(Q(101)) || !oversell.Remaining.Equal(Q(100)) {
		t.Errorf("OverSellError = %+v", oversell)
	}
}

func TestReplay_ClosedLotNeverReopens(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewSell(day("2024-02-01"), "ABC", Q(100), USD(12), ""),
		NewBuy(day("2024-03-01"), "ABC", Q(50), USD(9), "ABC_240101_A"),
	)

	if _, err := Replay(ledger); err == nil {
		t.Fatal("Replay() expected an error buying into a closed lot")
	}
}

func TestReplay_SameLotTopUp(t *testing.T) {
	// Two buys naming the same lot accumulate shares and cost.
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), "ABC_240101_A"),
		NewBuy(day("2024-02-01"), "ABC", Q(50), USD(12), "ABC_240101_A"),
	)

	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	tr := book.Tranche("ABC_240101_A")
	if !tr.SharesBought().Equal(Q(150)) {
		t.Errorf("SharesBought() = %v, want 150", tr.SharesBought())
	}
	if !tr.CostBasis().Equal(USD(1600)) {
		t.Errorf("CostBasis() = %v, want $1600", tr.CostBasis())
	}
	if tr.AcquisitionDate() != day("2024-01-01") {
		t.Errorf("AcquisitionDate() = %v, want the earliest buy date", tr.AcquisitionDate())
	}
}

func TestRemainingAsOf(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(100), USD(10), ""),
		NewSell(day("2024-03-01"), "ABC", Q(40), USD(12), ""),
	)
	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	tr := book.Tranche("ABC_240101_A")

	tests := []struct {
		on   Date
		want Quantity
	}{
		{day("2023-12-31"), Q(0)},
		{day("2024-01-01"), Q(100)},
		{day("2024-02-15"), Q(100)},
		{day("2024-03-01"), Q(60)},
		{day("2024-12-31"), Q(60)},
	}
	for _, tt := range tests {
		if got := tr.RemainingAsOf(tt.on); !got.Equal(tt.want) {
			t.Errorf("RemainingAsOf(%v) = %v, want %v", tt.on, got, tt.want)
		}
	}
}

func TestOpenLotsAsOf(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2024-01-01"), "ABC", Q(60), USD(10), ""),
		NewBuy(day("2024-01-15"), "ABC", Q(40), USD(10), ""),
		NewBuy(day("2024-01-20"), "XYZ", Q(10), USD(5), ""),
		NewSell(day("2024-02-01"), "ABC", Q(40), USD(11), "ABC_240115_A"),
	)
	book, err := Replay(ledger)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	// Before the sale both ABC lots are open.
	if got := book.openLotsAsOf("ABC", day("2024-01-31")); len(got) != 2 {
		t.Errorf("openLotsAsOf before sale = %d lots, want 2", len(got))
	}
	// After the sale the January 15 lot is exhausted.
	got := book.openLotsAsOf("ABC", day("2024-02-02"))
	if len(got) != 1 || got[0].ID() != "ABC_240101_A" {
		t.Errorf("openLotsAsOf after sale = %v, want only ABC_240101_A", got)
	}
}
