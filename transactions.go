package tranches

import (
	"errors"
	"fmt"
)

// EventType is a typed string for identifying transaction events.
type EventType string

// Event types used for identifying transactions.
const (
	EvBuy      EventType = "buy"
	EvSell     EventType = "sell"
	EvDividend EventType = "dividend"
)

// TransactionEvent defines the common interface for all typed records of the
// transaction log. Events are created once by the normalizer or a decoder and
// never mutated afterwards.
type TransactionEvent interface {
	What() EventType // What returns the event type (e.g., "buy", "sell").
	When() Date      // When returns the date on which the event occurred.
	Ticker() string  // Ticker returns the symbol the event applies to.
	Equal(TransactionEvent) bool
	Validate() error
}

type baseEvent struct {
	Kind   EventType `json:"kind"`           // Kind specifies the type of event (e.g., "buy", "sell").
	Date   Date      `json:"date"`           // Date is the date when the event took place.
	Symbol string    `json:"symbol"`         // Symbol is the ticker of the security involved.
	Memo   string    `json:"memo,omitempty"` // Memo provides an optional note for the event.
}

// What returns the event type, which is used to identify the kind of record.
func (e baseEvent) What() EventType { return e.Kind }

// When returns the date of the event.
func (e baseEvent) When() Date { return e.Date }

// Ticker returns the symbol of the security involved in the event.
func (e baseEvent) Ticker() string { return e.Symbol }

// Validate checks the base event fields.
func (e baseEvent) Validate() error {
	if e.Date.IsZero() {
		return errors.New("event date is missing")
	}
	if e.Symbol == "" {
		return errors.New("event symbol is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", e.Kind)
	w.Append("date", e.Date)
	w.Append("symbol", e.Symbol)
	w.Optional("memo", e.Memo)
	return w.MarshalJSON()
}

// BuyEvent represents the purchase of shares, opening or extending a tranche.
type BuyEvent struct {
	baseEvent
	Shares Quantity // Shares is the number of shares or units bought.
	Price  Money    // Price is the per-share purchase price.
	LotID  string   // LotID is an optional caller-supplied tranche identifier.
}

// NewBuy creates a new BuyEvent. An empty lotID lets the tranche book derive
// a deterministic identifier from the symbol and date.
func NewBuy(day Date, symbol string, shares Quantity, price Money, lotID string) BuyEvent {
	return BuyEvent{
		baseEvent: baseEvent{Kind: EvBuy, Date: day, Symbol: symbol},
		Shares:    shares,
		Price:     price,
		LotID:     lotID,
	}
}

// Cost returns the total cost of the purchase (shares x price).
func (e BuyEvent) Cost() Money { return e.Price.Mul(e.Shares) }

// MarshalJSON implements the json.Marshaler interface for BuyEvent.
func (e BuyEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("shares", e.Shares)
	w.Append("price", e.Price)
	w.Optional("lot", e.LotID)
	return w.MarshalJSON()
}

func (e BuyEvent) Equal(other TransactionEvent) bool {
	o, ok := other.(BuyEvent)
	return ok && e.baseEvent == o.baseEvent && e.Shares.Equal(o.Shares) &&
		e.Price.Equal(o.Price) && e.LotID == o.LotID
}

// Validate checks the BuyEvent's fields. It ensures that the share count is
// positive and the price is not negative (free shares are a legal input).
func (e BuyEvent) Validate() error {
	if err := e.baseEvent.Validate(); err != nil {
		return err
	}
	if !e.Shares.IsPositive() {
		return fmt.Errorf("buy shares must be positive, got %s", e.Shares)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("buy price cannot be negative, got %s", e.Price)
	}
	return nil
}

// SellEvent represents the sale of shares out of an existing tranche.
type SellEvent struct {
	baseEvent
	Shares Quantity // Shares is the number of shares or units sold.
	Price  Money    // Price is the per-share sale price.
	LotID  string   // LotID is an optional tranche identifier the sale applies to.
}

// NewSell creates a new SellEvent. When lotID is empty, the sale resolves to
// the most recent tranche identifier established for the symbol.
func NewSell(day Date, symbol string, shares Quantity, price Money, lotID string) SellEvent {
	return SellEvent{
		baseEvent: baseEvent{Kind: EvSell, Date: day, Symbol: symbol},
		Shares:    shares,
		Price:     price,
		LotID:     lotID,
	}
}

// MarshalJSON implements the json.Marshaler interface for SellEvent.
func (e SellEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("shares", e.Shares)
	w.Append("price", e.Price)
	w.Optional("lot", e.LotID)
	return w.MarshalJSON()
}

func (e SellEvent) Equal(other TransactionEvent) bool {
	o, ok := other.(SellEvent)
	return ok && e.baseEvent == o.baseEvent && e.Shares.Equal(o.Shares) &&
		e.Price.Equal(o.Price) && e.LotID == o.LotID
}

// Validate checks the SellEvent's fields.
func (e SellEvent) Validate() error {
	if err := e.baseEvent.Validate(); err != nil {
		return err
	}
	if !e.Shares.IsPositive() {
		return fmt.Errorf("sell shares must be positive, got %s", e.Shares)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("sell price cannot be negative, got %s", e.Price)
	}
	return nil
}

// DividendEvent represents a distribution paid on a symbol. The amount is
// given either per share or as a total; the return-of-capital component is
// given either as a percentage of the total or as an absolute amount. When a
// broker supplies the taxable figure independently it is carried in Taxable
// and treated as authoritative; otherwise taxable is derived as total - ROC.
type DividendEvent struct {
	baseEvent
	PerShare   Money   // PerShare is the distribution per share, if supplied.
	Total      Money   // Total is the absolute distribution amount, if supplied.
	ROCPercent Percent // ROCPercent is the return-of-capital ratio of the total (1.0 = 100%).
	ROCAmount  Money   // ROCAmount is the absolute return-of-capital amount, if supplied.
	Taxable    Money   // Taxable is the broker-reported taxable amount, if supplied.
}

// NewDividend creates a DividendEvent from a total amount and a ROC ratio.
func NewDividend(day Date, symbol string, total Money, rocPercent Percent) DividendEvent {
	return DividendEvent{
		baseEvent:  baseEvent{Kind: EvDividend, Date: day, Symbol: symbol},
		Total:      total,
		ROCPercent: rocPercent,
	}
}

// NewDividendPerShare creates a DividendEvent from a per-share amount and a ROC ratio.
func NewDividendPerShare(day Date, symbol string, perShare Money, rocPercent Percent) DividendEvent {
	return DividendEvent{
		baseEvent:  baseEvent{Kind: EvDividend, Date: day, Symbol: symbol},
		PerShare:   perShare,
		ROCPercent: rocPercent,
	}
}

// MarshalJSON implements the json.Marshaler interface for DividendEvent.
func (e DividendEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Optional("perShare", e.PerShare)
	w.Optional("total", e.Total)
	w.Optional("rocPercent", e.ROCPercent)
	w.Optional("rocAmount", e.ROCAmount)
	w.Optional("taxable", e.Taxable)
	return w.MarshalJSON()
}

func (e DividendEvent) Equal(other TransactionEvent) bool {
	o, ok := other.(DividendEvent)
	return ok && e.baseEvent == o.baseEvent && e.PerShare.Equal(o.PerShare) &&
		e.Total.Equal(o.Total) && e.ROCPercent.Equal(o.ROCPercent) &&
		e.ROCAmount.Equal(o.ROCAmount) && e.Taxable.Equal(o.Taxable)
}

// Validate checks the DividendEvent's fields. Exactly one of the per-share or
// total amounts must be supplied and positive.
func (e DividendEvent) Validate() error {
	if err := e.baseEvent.Validate(); err != nil {
		return err
	}
	if e.PerShare.IsZero() && e.Total.IsZero() {
		return errors.New("dividend needs a per-share or a total amount")
	}
	if e.PerShare.IsNegative() || e.Total.IsNegative() {
		return errors.New("dividend amount cannot be negative")
	}
	if e.ROCPercent < 0 || e.ROCPercent > 1 {
		return fmt.Errorf("dividend ROC ratio must be within [0,1], got %v", float64(e.ROCPercent))
	}
	if e.ROCAmount.IsNegative() {
		return errors.New("dividend ROC amount cannot be negative")
	}
	if e.Taxable.IsNegative() {
		return errors.New("dividend taxable amount cannot be negative")
	}
	return nil
}
