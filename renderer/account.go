// Package renderer formats papertrade reports as markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/papertrade"
)

// AccountMarkdown renders the cash overview and the held positions.
func AccountMarkdown(info papertrade.AccountInfo, positions []papertrade.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Account\n\n")
	fmt.Fprintln(&b, "| Cash | Initial Cash | Currency |")
	fmt.Fprintln(&b, "|---:|---:|:---|")
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n", info.CashBalance, info.InitialCash, info.Currency)

	fmt.Fprintf(&b, "## Positions\n\n")
	if len(positions) == 0 {
		fmt.Fprintf(&b, "No position.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Symbol | Quantity | Cost Basis | Total Cost |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Symbol, p.Quantity, p.CostBasis, p.TotalCost)
	}
	return b.String()
}
