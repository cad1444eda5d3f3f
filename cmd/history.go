package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
)

type historyCmd struct {
	limit int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the order history" }
func (*historyCmd) Usage() string {
	return `ptd history [-n <count>]

  Displays the executed orders, most recent first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of orders to display, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit < 0 {
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		return a.account.View(func(l *papertrade.Ledger) error {
			printMarkdown(renderer.HistoryMarkdown(l.OrderHistory(c.limit)))
			return nil
		})
	})
}
