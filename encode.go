package tranches

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// moneyField is a specialized struct to decode a monetary value from its two
// persisted fields.
type moneyField struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a moneyField) Money() Money {
	if a.Amount.IsZero() && a.Currency == "" {
		return Money{}
	}
	return M(a.Amount, a.Currency)
}

// tradeEvent is a specialized struct for decoding buy and sell lines.
type tradeEvent struct {
	baseEvent
	Shares Quantity   `json:"shares"`
	Price  moneyField `json:"price"`
	Lot    string     `json:"lot"`
}

// dividendEvent is a specialized struct for decoding dividend lines.
type dividendEvent struct {
	baseEvent
	PerShare   moneyField `json:"perShare"`
	Total      moneyField `json:"total"`
	ROCPercent float64    `json:"rocPercent"`
	ROCAmount  moneyField `json:"rocAmount"`
	Taxable    moneyField `json:"taxable"`
}

// DecodeLedger decodes events from a stream of JSONL data, decodes each line
// into the appropriate event struct, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind EventType `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		var decoded TransactionEvent
		switch identifier.Kind {
		case EvBuy:
			var temp tradeEvent
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = BuyEvent{
				baseEvent: temp.baseEvent,
				Shares:    temp.Shares,
				Price:     temp.Price.Money(),
				LotID:     temp.Lot,
			}
		case EvSell:
			var temp tradeEvent
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = SellEvent{
				baseEvent: temp.baseEvent,
				Shares:    temp.Shares,
				Price:     temp.Price.Money(),
				LotID:     temp.Lot,
			}
		case EvDividend:
			var temp dividendEvent
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			decoded = DividendEvent{
				baseEvent:  temp.baseEvent,
				PerShare:   temp.PerShare.Money(),
				Total:      temp.Total.Money(),
				ROCPercent: Percent(temp.ROCPercent),
				ROCAmount:  temp.ROCAmount.Money(),
				Taxable:    temp.Taxable.Money(),
			}
		default:
			return nil, fmt.Errorf("unknown event kind: %q", identifier.Kind)
		}

		ledger.Append(decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return ledger, nil
}

// EncodeEvent marshals a single event to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeEvent(w io.Writer, e TransactionEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger to an io.Writer in JSONL format,
// in chronological order. Events on the same day keep their original
// relative order, so encoding is canonical and reproducible.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, e := range ledger.Events() {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}
