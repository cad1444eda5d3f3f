package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/papertrade"
)

// AssetsMarkdown renders the valuation of an account.
func AssetsMarkdown(r papertrade.AssetsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Assets\n\n")
	fmt.Fprintln(&b, "| Cash | Positions | Total | P&L |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Cash, r.PositionsValue, r.TotalAssets, r.TotalPnL.SignedString())

	if len(r.Positions) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Symbol | Quantity | Cost Basis | Price | Value | Unrealized |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
		for _, l := range r.Positions {
			price := l.CurrentPrice.String()
			if !l.Priced {
				price += " *"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				l.Symbol,
				l.Quantity,
				l.CostBasis,
				price,
				l.MarketValue,
				l.UnrealizedPnL.SignedString(),
			)
		}
	}
	if r.Stale() {
		fmt.Fprintf(&b, "\n\\* no market price for %s, valued at cost basis.\n", strings.Join(r.Unpriced, ", "))
	}
	return b.String()
}

// PricesMarkdown renders market prices for symbols, in order. Unknown prices are shown as n/a.
func PricesMarkdown(prices papertrade.Prices, symbols []string) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Symbol | Price |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, s := range symbols {
		price := "n/a"
		if p, ok := prices.Lookup(s); ok {
			price = p.String()
		}
		fmt.Fprintf(&b, "| %s | %s |\n", s, price)
	}
	return b.String()
}
