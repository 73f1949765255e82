package tranches

import (
	"slices"
	"time"
)

// WeekKey identifies one aggregation group: the week anchor day and a symbol.
type WeekKey struct {
	Start  Date
	Symbol string
}

// YearKey scopes a year-to-date running sum to a calendar year and a symbol.
// An empty symbol scopes the sum across all symbols.
type YearKey struct {
	Year   int
	Symbol string
}

// WeeklyRow is one output row of the aggregator: the raw per-(week, symbol)
// totals together with the three running sums maintained in ascending week
// order.
type WeeklyRow struct {
	Week   Date // anchor day of the week (Monday unless configured otherwise)
	Symbol string

	Distribution   Money
	Taxable        Money
	ROC            Money
	SharesEligible Quantity
	Events         int
	IncomePerShare Money // Distribution / SharesEligible, 0 when no share was eligible

	// Totals across all symbols for this week.
	WeekAllDistribution Money
	WeekAllTaxable      Money
	WeekAllROC          Money

	// Year-to-date running sums for this symbol.
	YTDDistribution Money
	YTDTaxable      Money
	YTDROC          Money

	// Year-to-date running sums across all symbols.
	YTDAllDistribution Money
	YTDAllTaxable      Money
	YTDAllROC          Money
}

// eventKey identifies one dividend event inside a group, so that the event
// count is per event, not per allocated lot.
type eventKey struct {
	date   Date
	symbol string
}

type weeklyGroup struct {
	distribution Money
	taxable      Money
	roc          Money
	shares       Quantity
	events       map[eventKey]struct{}
}

// amounts is one running-sum accumulator triple.
type amounts struct {
	distribution Money
	taxable      Money
	roc          Money
}

func (a amounts) add(g *weeklyGroup) amounts {
	return amounts{
		distribution: a.distribution.Add(g.distribution),
		taxable:      a.taxable.Add(g.taxable),
		roc:          a.roc.Add(g.roc),
	}
}

// Aggregator groups dividend allocations by (week start, symbol) and derives
// weekly and year-to-date totals. It exclusively owns the aggregate tables;
// no other component writes them.
type Aggregator struct {
	anchor time.Weekday
	groups map[WeekKey]*weeklyGroup
}

// NewAggregator creates an aggregator with the given week anchor day.
// The conventional anchor is Monday.
func NewAggregator(anchor time.Weekday) *Aggregator {
	return &Aggregator{
		anchor: anchor,
		groups: make(map[WeekKey]*weeklyGroup),
	}
}

// Add accumulates allocation rows into their (week, symbol) groups.
func (a *Aggregator) Add(allocs ...Allocation) {
	for _, al := range allocs {
		key := WeekKey{Start: al.Date.StartOfWeek(a.anchor), Symbol: al.Symbol}
		g, ok := a.groups[key]
		if !ok {
			g = &weeklyGroup{events: make(map[eventKey]struct{})}
			a.groups[key] = g
		}
		g.distribution = g.distribution.Add(al.Distribution)
		g.taxable = g.taxable.Add(al.Taxable)
		g.roc = g.roc.Add(al.ROC)
		g.shares = g.shares.Add(al.Shares)
		g.events[eventKey{date: al.Date, symbol: al.Symbol}] = struct{}{}
	}
}

// Rows computes the output rows, processing groups in ascending week order
// (ties broken by symbol) and maintaining the year-to-date running sums as it
// goes. The running sums are scoped to the week start's calendar year; they
// reset at year boundaries and never decrease within a year.
func (a *Aggregator) Rows() []WeeklyRow {
	keys := make([]WeekKey, 0, len(a.groups))
	for key := range a.groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(x, y WeekKey) int {
		if x.Start.Before(y.Start) {
			return -1
		}
		if x.Start.After(y.Start) {
			return 1
		}
		if x.Symbol < y.Symbol {
			return -1
		}
		if x.Symbol > y.Symbol {
			return 1
		}
		return 0
	})

	// Week totals across symbols are needed on every row of the week.
	weekAll := make(map[Date]amounts)
	for key, g := range a.groups {
		weekAll[key.Start] = weekAll[key.Start].add(g)
	}

	ytd := make(map[YearKey]amounts)
	rows := make([]WeeklyRow, 0, len(keys))
	for _, key := range keys {
		g := a.groups[key]
		year := key.Start.Year()

		symbolKey := YearKey{Year: year, Symbol: key.Symbol}
		allKey := YearKey{Year: year}
		ytd[symbolKey] = ytd[symbolKey].add(g)
		ytd[allKey] = ytd[allKey].add(g)

		row := WeeklyRow{
			Week:   key.Start,
			Symbol: key.Symbol,

			Distribution:   g.distribution,
			Taxable:        g.taxable,
			ROC:            g.roc,
			SharesEligible: g.shares,
			Events:         len(g.events),

			WeekAllDistribution: weekAll[key.Start].distribution,
			WeekAllTaxable:      weekAll[key.Start].taxable,
			WeekAllROC:          weekAll[key.Start].roc,

			YTDDistribution: ytd[symbolKey].distribution,
			YTDTaxable:      ytd[symbolKey].taxable,
			YTDROC:          ytd[symbolKey].roc,

			YTDAllDistribution: ytd[allKey].distribution,
			YTDAllTaxable:      ytd[allKey].taxable,
			YTDAllROC:          ytd[allKey].roc,
		}
		if !g.shares.IsZero() {
			row.IncomePerShare = g.distribution.Div(g.shares)
		}
		rows = append(rows, row)
	}
	return rows
}
