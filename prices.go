package papertrade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrInvalidPrices is returned when a price map cannot be trusted.
var ErrInvalidPrices = errors.New("invalid prices")

// Prices maps a symbol to its current market price.
type Prices map[string]Money

// Lookup returns the price of symbol, if known.
func (p Prices) Lookup(symbol string) (Money, bool) {
	m, ok := p[symbol]
	return m, ok
}

// Validate checks that every entry has a symbol and a non negative price.
func (p Prices) Validate() error {
	var errs error
	for _, s := range slices.Sorted(maps.Keys(p)) {
		switch {
		case s == "":
			errs = errors.Join(errs, fmt.Errorf("%w: empty symbol", ErrInvalidPrices))
		case p[s].IsNegative():
			errs = errors.Join(errs, fmt.Errorf("%w: negative price %s for %s", ErrInvalidPrices, p[s].Decimal(), s))
		}
	}
	return errs
}

// Prices implements PriceSource for a static map. Unknown symbols are simply absent.
func (p Prices) Prices(_ context.Context, symbols []string) (Prices, error) {
	result := make(Prices, len(symbols))
	for _, s := range symbols {
		if m, ok := p[s]; ok {
			result[s] = m
		}
	}
	return result, result.Validate()
}

// PriceSource provides current market prices.
//
// Symbols that have no price are absent from the result, an error means that
// the source itself is unusable.
type PriceSource interface {
	Prices(ctx context.Context, symbols []string) (Prices, error)
}

// DecodePrices reads a JSON object mapping symbols to prices.
func DecodePrices(r io.Reader) (Prices, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrices, err)
	}
	prices := make(Prices, len(raw))
	for s, v := range raw {
		var m Money
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, fmt.Errorf("%w: price of %s: %w", ErrInvalidPrices, s, err)
		}
		prices[s] = m
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	return prices, nil
}
