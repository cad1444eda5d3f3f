package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/papertrade/journal"
)

// RunsMarkdown renders journal entries.
func RunsMarkdown(runs []journal.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Runs\n\n")
	if len(runs) == 0 {
		fmt.Fprintf(&b, "No run recorded.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Time | Source | Succeeded | Failed | Total Assets | P&L |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	for _, r := range runs {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %s | %s |\n",
			r.ID,
			r.Time.Local().Format(time.DateTime),
			r.Source,
			r.Succeeded,
			r.Failed,
			r.TotalAssets,
			r.TotalPnL.SignedString(),
		)
	}
	return b.String()
}
