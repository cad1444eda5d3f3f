package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/renderer"
)

type assetsCmd struct{}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "value the account at market prices" }
func (*assetsCmd) Usage() string {
	return `ptd assets

  Values every position with the prices of the quotes file. Positions without
  a price are valued at their cost basis and marked with a *.
`
}

func (*assetsCmd) SetFlags(*flag.FlagSet) {}

func (*assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		return a.account.View(func(l *papertrade.Ledger) error {
			prices, err := a.prices().Prices(ctx, l.Symbols())
			if err != nil {
				return err
			}
			report := l.CalculateAssets(prices)
			md := renderer.AssetsMarkdown(report)
			md += "\nRealized P&L: " + l.RealizedPnL().SignedString() + "\n"
			printMarkdown(md)
			return nil
		})
	})
}
