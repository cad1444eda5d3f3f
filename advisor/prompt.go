// Package advisor asks a language model for trading decisions.
package advisor

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
)

// rules are the trading rules given to the model. The reply format is one the
// instruction parser reads first.
const rules = `## Rules

- You trade U.S. stocks on a virtual account, there is no margin and no short selling.
- You may only buy what the cash balance pays for, and only sell shares you hold.
- Quantities are whole numbers of shares. Orders fill at the market price unless you give a price.
- If no trade is worth doing, HOLD.

## Answer

Answer with a JSON array of instructions and nothing else, for instance:

` + "```json" + `
[
  {"action": "BUY", "symbol": "NVDA", "quantity": 10, "reason": "breakout above resistance"},
  {"action": "SELL", "symbol": "TSLA", "quantity": 5, "reason": "take profit"},
  {"action": "HOLD", "symbol": "SPY", "reason": "no clear signal"}
]
` + "```" + `
`

// Prompt renders the account state as the prompt of a decision.
func Prompt(c papertrade.AdvisorContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an autonomous trading agent managing a virtual U.S. stock account.\n")
	fmt.Fprintf(&b, "Based on the following information, decide what to trade now.\n\n")

	b.WriteString(renderer.AccountMarkdown(c.Account, c.Positions))
	b.WriteString("\n")
	b.WriteString(renderer.AssetsMarkdown(c.Assets))
	b.WriteString("\n")

	fmt.Fprintf(&b, "# Market Data\n\n")
	if len(c.Prices) == 0 {
		fmt.Fprintf(&b, "No market price is available.\n")
	} else {
		b.WriteString(renderer.PricesMarkdown(c.Prices, slices.Sorted(maps.Keys(c.Prices))))
	}
	b.WriteString("\n")

	b.WriteString(renderer.HistoryMarkdown(c.Orders))
	b.WriteString("\n")
	b.WriteString(rules)
	return b.String()
}
