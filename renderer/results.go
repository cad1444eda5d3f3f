package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/papertrade"
)

// ResultsMarkdown renders the outcome of a batch of instructions.
func ResultsMarkdown(results []papertrade.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Execution\n\n")
	if len(results) == 0 {
		fmt.Fprintf(&b, "No instruction found.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| # | Action | Symbol | Quantity | Price | Result |")
	fmt.Fprintln(&b, "|---:|:---|:---|---:|---:|:---|")
	for i, r := range results {
		ins := r.Instruction
		quantity, price := "", ""
		if ins.Quantity != nil {
			quantity = ins.Quantity.String()
		}
		if ins.Price != nil {
			price = ins.Price.String()
		}
		status := "✗"
		if r.Success {
			status = "✓"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s %s |\n",
			i+1,
			ins.Action,
			ins.Symbol,
			quantity,
			price,
			status,
			escape(r.Message),
		)
	}
	return b.String()
}

// escape makes s safe inside a table cell.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
