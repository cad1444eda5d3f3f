package papertrade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultQuoteExpr selects a symbol's price in a flat {"SYM": price} document.
const DefaultQuoteExpr = `$[%q]`

// QuoteFile is a PriceSource reading a JSON quotes file.
//
// Expr is a JSONPath expression where %q is replaced by the quoted symbol,
// e.g. `$.quotes[%q].last`. Symbols the expression does not match have no price.
type QuoteFile struct {
	Path string
	Expr string
}

// Prices implements PriceSource. The file is read on every call.
func (q QuoteFile) Prices(ctx context.Context, symbols []string) (Prices, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(q.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot read quotes %q: %w", q.Path, err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("%w: quotes %q: %w", ErrInvalidPrices, q.Path, err)
	}
	prices := make(Prices, len(symbols))
	for _, s := range symbols {
		m, ok, err := quote(jobj, q.Expr, s)
		if err != nil {
			return nil, err
		}
		if ok {
			prices[s] = m
		}
	}
	return prices, prices.Validate()
}

// QuoteURL is a PriceSource querying a JSON quote service, one request per symbol.
//
// URL contains %s, replaced by the symbol. Expr locates the price in the
// response like in QuoteFile, %q is the quoted symbol.
type QuoteURL struct {
	URL    string
	Expr   string
	Client *http.Client // nil means http.DefaultClient
}

// Prices implements PriceSource. A symbol the service does not know has no price,
// any other failure fails the whole query.
func (q QuoteURL) Prices(ctx context.Context, symbols []string) (Prices, error) {
	client := q.Client
	if client == nil {
		client = http.DefaultClient
	}
	prices := make(Prices, len(symbols))
	for _, s := range symbols {
		addr := fmt.Sprintf(q.URL, s)
		var jobj any
		err := jwget(ctx, client, addr, &jobj)
		if errNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error retrieving %q: %w", s, err)
		}
		m, ok, err := quote(jobj, q.Expr, s)
		if err != nil {
			return nil, err
		}
		if ok {
			prices[s] = m
		}
	}
	return prices, prices.Validate()
}

// quote evaluates expr for symbol in jobj. It reports false when nothing matches.
func quote(jobj any, expr, symbol string) (Money, bool, error) {
	if expr == "" {
		expr = DefaultQuoteExpr
	}
	path := fmt.Sprintf(expr, symbol)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// unknown key: the symbol has no quote.
		return Money{}, false, nil
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return Money{}, false, nil
		}
		jval = jlist[0]
	}
	d, err := quoteValue(jval)
	if err != nil {
		return Money{}, false, fmt.Errorf("%w: quote of %s at %q: %w", ErrInvalidPrices, symbol, path, err)
	}
	return M(d, DefaultCurrency), true, nil
}

func quoteValue(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return parseNumber(strings.TrimSpace(v))
	case nil:
		return decimal.Zero, fmt.Errorf("null quote")
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", v)
	}
}
