package tranches

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
)

// The price lookup is a collaborator of the core: the engine only consumes a
// PriceLookup function. This file provides the two usual sources, a static
// quote file and a JSON quote endpoint.

// DecodeQuotes reads a quote file in JSONL format, where each line is a JSON
// object with a "symbol" and a "price" (and an optional "currency").
func DecodeQuotes(r io.Reader, currency string) (map[string]Money, error) {
	type jquote struct {
		Symbol   string  `json:"symbol"`
		Price    float64 `json:"price"`
		Currency string  `json:"currency"`
	}

	quotes := make(map[string]Money)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jq jquote
		if err := json.Unmarshal(line, &jq); err != nil {
			return nil, fmt.Errorf("cannot parse line for quote format: %q: %w", string(line), err)
		}
		cur := jq.Currency
		if cur == "" {
			cur = currency
		}
		quotes[jq.Symbol] = M(jq.Price, cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading quotes: %w", err)
	}
	return quotes, nil
}

// StaticPrices wraps a quote table into a PriceLookup. A total miss returns
// the zero price, never an error.
func StaticPrices(quotes map[string]Money) PriceLookup {
	return func(symbol string) Money {
		return quotes[symbol]
	}
}

// QuoteService fetches current prices from a JSON quote endpoint. The
// endpoint address contains a %s verb replaced by the symbol; the price is
// extracted from the payload with a JSONPath expression, because quote
// providers never agree on a payload shape. Responses are cached per symbol
// so a run hits the provider at most once per symbol.
type QuoteService struct {
	client   *http.Client
	addr     string // e.g. "https://quotes.example.com/latest?symbol=%s"
	path     string // e.g. "$.data.last"
	currency string
	memo     *cache.Cache
}

// NewQuoteService creates a quote service for the given endpoint and payload path.
func NewQuoteService(addr, path, currency string) *QuoteService {
	return &QuoteService{
		client:   new(http.Client),
		addr:     addr,
		path:     path,
		currency: currency,
		memo:     cache.New(15*time.Minute, 30*time.Minute),
	}
}

// Price returns the current price for a symbol, or the zero price when the
// provider cannot serve it.
func (s *QuoteService) Price(symbol string) Money {
	if hit, found := s.memo.Get(symbol); found {
		return hit.(Money)
	}

	val, err := s.fetch(symbol)
	if err != nil {
		log.Printf("quote miss for %q: %v", symbol, err)
		return Money{}
	}

	price := M(val, s.currency)
	s.memo.Set(symbol, price, cache.DefaultExpiration)
	return price
}

// Lookup adapts the service to the PriceLookup consumed by the engine.
func (s *QuoteService) Lookup() PriceLookup {
	return s.Price
}

func (s *QuoteService) fetch(symbol string) (float64, error) {
	addr := fmt.Sprintf(s.addr, symbol)
	var jobj any
	if err := jwget(s.client, addr, &jobj); err != nil {
		return 0, fmt.Errorf("error in wget %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get(s.path, jobj)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q: %q %w", symbol, s.path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		// sometimes, providers return the value as a string, comma included
		return strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	default:
		return 0, fmt.Errorf("error parsing %q: %q not a number: %v", symbol, s.path, jval)
	}
}
