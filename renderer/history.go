package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/papertrade"
)

// HistoryMarkdown renders orders in the given order.
func HistoryMarkdown(orders []papertrade.OrderRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Order History\n\n")
	if len(orders) == 0 {
		fmt.Fprintf(&b, "No order.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Time | Side | Symbol | Quantity | Price | Amount | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|")
	for _, o := range orders {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			o.Timestamp.Format(time.DateTime),
			o.Side,
			o.Symbol,
			o.Quantity,
			o.Price,
			o.TotalAmount,
			o.Status,
		)
	}
	return b.String()
}
