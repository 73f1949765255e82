package tranches

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical column names the normalizer understands. Sources expose them
// under various spellings; see headerSynonyms.
const (
	colKind       = "kind"
	colDate       = "date"
	colSymbol     = "symbol"
	colShares     = "shares"
	colPrice      = "price"
	colDividend   = "dividend"
	colPerShare   = "pershare"
	colROCPercent = "rocpercent"
	colROCAmount  = "rocamount"
	colTaxable    = "taxable"
	colLot        = "lot"
)

// requiredColumns must all be present for a source to be accepted at all.
var requiredColumns = []string{colKind, colDate, colSymbol}

// headerSynonyms maps known header spellings (lowercased, separators removed)
// to their canonical column name.
var headerSynonyms = map[string]string{
	"kind": colKind, "type": colKind, "event": colKind, "action": colKind,
	"date": colDate, "tradedate": colDate, "orderdate": colDate,
	"symbol": colSymbol, "sym": colSymbol, "ticker": colSymbol,
	"shares": colShares, "qty": colShares, "quantity": colShares,
	"price": colPrice, "shareprice": colPrice, "unitprice": colPrice,
	"dividend": colDividend, "div": colDividend, "distribution": colDividend, "dividendtotal": colDividend,
	"pershare": colPerShare, "dps": colPerShare, "dividendpershare": colPerShare, "divpershare": colPerShare,
	"rocpercent": colROCPercent, "roc%": colROCPercent, "rocpct": colROCPercent,
	"rocamount": colROCAmount, "roc": colROCAmount,
	"taxable": colTaxable, "taxableincome": colTaxable, "income": colTaxable,
	"lot": colLot, "lotid": colLot, "trid": colLot, "trancheid": colLot, "tranche": colLot,
}

// HeaderMap maps canonical column names to their index in a source row.
type HeaderMap map[string]int

// MapHeader resolves a raw header into a HeaderMap, tolerating case and the
// known synonyms. It fails fast with a MissingColumnError when a required
// column cannot be found; it never produces a partial result.
func MapHeader(header []string) (HeaderMap, error) {
	hm := make(HeaderMap)
	for i, name := range header {
		key := strings.ToLower(name)
		key = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(key)
		if canonical, ok := headerSynonyms[key]; ok {
			if _, dup := hm[canonical]; !dup {
				hm[canonical] = i
			}
		}
	}
	for _, required := range requiredColumns {
		if _, ok := hm[required]; !ok {
			return nil, &MissingColumnError{Column: required}
		}
	}
	return hm, nil
}

// field returns the trimmed cell of a canonical column, or "" when the
// column is absent from the source or the row is short.
func (hm HeaderMap) field(row []string, col string) string {
	i, ok := hm[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NormalizeResult carries the canonical events of a source plus the rows
// that had to be skipped.
type NormalizeResult struct {
	Events  []TransactionEvent
	Skipped []*MalformedRowError
}

// SkippedCount returns the number of rows skipped as malformed.
func (r *NormalizeResult) SkippedCount() int { return len(r.Skipped) }

// Normalize parses raw rows into canonical transaction events. The header is
// resolved first (fatal on missing schema); each row is then parsed
// independently, and a row that cannot be parsed is skipped, logged and
// counted without affecting the others. Rows keep their source order; the
// ledger enforces chronological order downstream.
//
// The currency applies to every monetary field of the source.
func Normalize(header []string, rows [][]string, currency string) (*NormalizeResult, error) {
	hm, err := MapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &NormalizeResult{}
	for i, row := range rows {
		line := i + 2 // 1-based, after the header line
		event, err := normalizeRow(hm, row, line, currency)
		if err != nil {
			var malformed *MalformedRowError
			if m, ok := err.(*MalformedRowError); ok {
				malformed = m
			} else {
				malformed = &MalformedRowError{Line: line, Field: colKind, Err: err}
			}
			log.Printf("skipping row %d: %v", line, malformed.Err)
			result.Skipped = append(result.Skipped, malformed)
			continue
		}
		result.Events = append(result.Events, event)
	}
	return result, nil
}

// normalizeRow parses one source row into a typed event.
func normalizeRow(hm HeaderMap, row []string, line int, currency string) (TransactionEvent, error) {
	day, err := ParseDate(hm.field(row, colDate))
	if err != nil {
		return nil, &MalformedRowError{Line: line, Field: colDate, Err: err}
	}
	symbol := hm.field(row, colSymbol)
	if symbol == "" {
		return nil, &MalformedRowError{Line: line, Field: colSymbol, Err: fmt.Errorf("empty symbol")}
	}

	kind := strings.ToLower(hm.field(row, colKind))
	switch kind {
	case "buy", "b", "purchase":
		shares, err := parseQuantity(hm.field(row, colShares))
		if err != nil {
			return nil, &MalformedRowError{Line: line, Field: colShares, Err: err}
		}
		price, err := parseMoney(hm.field(row, colPrice), currency)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Field: colPrice, Err: err}
		}
		return NewBuy(day, symbol, shares, price, hm.field(row, colLot)), nil

	case "sell", "s", "sale":
		shares, err := parseQuantity(hm.field(row, colShares))
		if err != nil {
			return nil, &MalformedRowError{Line: line, Field: colShares, Err: err}
		}
		price, err := parseMoney(hm.field(row, colPrice), currency)
		if err != nil {
			return nil, &MalformedRowError{Line: line, Field: colPrice, Err: err}
		}
		return NewSell(day, symbol, shares, price, hm.field(row, colLot)), nil

	case "dividend", "div", "distribution", "d":
		ev := DividendEvent{baseEvent: baseEvent{Kind: EvDividend, Date: day, Symbol: symbol}}
		if s := hm.field(row, colDividend); s != "" {
			if ev.Total, err = parseMoney(s, currency); err != nil {
				return nil, &MalformedRowError{Line: line, Field: colDividend, Err: err}
			}
		}
		if s := hm.field(row, colPerShare); s != "" {
			if ev.PerShare, err = parseMoney(s, currency); err != nil {
				return nil, &MalformedRowError{Line: line, Field: colPerShare, Err: err}
			}
		}
		if s := hm.field(row, colROCPercent); s != "" {
			if ev.ROCPercent, err = parsePercent(s); err != nil {
				return nil, &MalformedRowError{Line: line, Field: colROCPercent, Err: err}
			}
		}
		if s := hm.field(row, colROCAmount); s != "" {
			if ev.ROCAmount, err = parseMoney(s, currency); err != nil {
				return nil, &MalformedRowError{Line: line, Field: colROCAmount, Err: err}
			}
		}
		if s := hm.field(row, colTaxable); s != "" {
			if ev.Taxable, err = parseMoney(s, currency); err != nil {
				return nil, &MalformedRowError{Line: line, Field: colTaxable, Err: err}
			}
		}
		if err := ev.Validate(); err != nil {
			return nil, &MalformedRowError{Line: line, Field: colDividend, Err: err}
		}
		return ev, nil

	default:
		return nil, &MalformedRowError{Line: line, Field: colKind, Err: fmt.Errorf("unknown event kind %q", kind)}
	}
}

// numericCleaner strips the currency symbols and separators brokers sprinkle
// over exported numbers.
var numericCleaner = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "")

func parseDecimal(s string) (decimal.Decimal, error) {
	cleaned := numericCleaner.Replace(s)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty numeric field")
	}
	return decimal.NewFromString(cleaned)
}

func parseQuantity(s string) (Quantity, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Quantity{}, err
	}
	return Q(d), nil
}

func parseMoney(s, currency string) (Money, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Money{}, err
	}
	return M(d, currency), nil
}

// parsePercent parses a ROC ratio. "40%" and "40" both mean 0.40; a value
// not greater than 1 is taken as an already-normalized ratio.
func parsePercent(s string) (Percent, error) {
	explicit := strings.ContainsRune(s, '%')
	d, err := parseDecimal(strings.ReplaceAll(s, "%", ""))
	if err != nil {
		return 0, err
	}
	v := d.InexactFloat64()
	if explicit || v > 1 {
		v /= 100
	}
	return Percent(v), nil
}
