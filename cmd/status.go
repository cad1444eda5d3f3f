package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display cash and positions" }
func (*statusCmd) Usage() string {
	return `ptd status

  Displays the cash balance and the positions of the account, with their cost basis.
`
}

func (*statusCmd) SetFlags(*flag.FlagSet) {}

func (*statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		return a.account.View(func(l *papertrade.Ledger) error {
			printMarkdown(renderer.AccountMarkdown(l.AccountInfo(), l.Positions()))
			return nil
		})
	})
}
