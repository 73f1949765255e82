package tranches

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger represents the ordered transaction log.
//
// In a Ledger events are always in chronological order; events on the same
// day keep their original source order (the sort is stable).
type Ledger struct {
	events  []TransactionEvent
	symbols map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		events:  make([]TransactionEvent, 0),
		symbols: make(map[string]struct{}),
	}
}

// Append appends events to this ledger and maintains the chronological order of events.
func (l *Ledger) Append(evs ...TransactionEvent) {
	l.events = append(l.events, evs...)
	for _, e := range evs {
		l.symbols[e.Ticker()] = struct{}{}
	}
	l.stableSort()
}

// Validate checks every event of the ledger and returns the first failure
// with its date context.
func (l *Ledger) Validate() error {
	for _, e := range l.events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid %s event on %s: %w", e.What(), e.When(), err)
		}
	}
	return nil
}

// Events returns an iterator that yields each event in chronological order.
// Optional filters restrict the sequence to events accepted by any filter.
func (l *Ledger) Events(filters ...func(TransactionEvent) bool) iter.Seq2[int, TransactionEvent] {
	return func(yield func(int, TransactionEvent) bool) {
		for i, e := range l.events {
			if len(filters) > 0 {
				accept := false
				for _, filter := range filters {
					if filter(e) {
						accept = true
						break
					}
				}
				if !accept {
					continue
				}
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// Len returns the number of events in the ledger.
func (l *Ledger) Len() int { return len(l.events) }

// AllSymbols returns the sorted list of symbols seen in the ledger.
func (l *Ledger) AllSymbols() []string {
	symbols := slices.Collect(maps.Keys(l.symbols))
	slices.Sort(symbols)
	return symbols
}

// OldestEventDate returns the date of the earliest event in the ledger,
// or the zero date when the ledger is empty.
func (l *Ledger) OldestEventDate() Date {
	if len(l.events) == 0 {
		return Date{}
	}
	return l.events[0].When()
}

// NewestEventDate returns the date of the latest event in the ledger,
// or the zero date when the ledger is empty.
func (l *Ledger) NewestEventDate() Date {
	if len(l.events) == 0 {
		return Date{}
	}
	return l.events[len(l.events)-1].When()
}

// stableSort sorts the ledger by event date. The sort is stable, meaning
// events on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].When().Before(l.events[j].When())
	})
}
