package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/advisor"
	"github.com/etnz/papertrade/renderer"
)

type adviseCmd struct {
	symbols string
	dryRun  bool
}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "ask Gemini for a decision and execute it" }
func (*adviseCmd) Usage() string {
	return `ptd advise [-s <symbols>] [-n]

  Sends the account state and the market prices to Gemini, then executes the
  decision it returns. The API key is read from GEMINI_API_KEY.
  With -n the prompt is printed and nothing is sent nor executed.
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "s", "", "comma separated symbols to price for the advisor, in addition to the configured ones")
	f.BoolVar(&c.dryRun, "n", false, "print the prompt instead of calling the model")
}

func (c *adviseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(ctx context.Context, a *app) error {
		symbols := slices.Clone(a.cfg.Advisor.Symbols)
		for _, s := range strings.Split(c.symbols, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}

		if c.dryRun {
			return a.account.View(func(l *papertrade.Ledger) error {
				prices, err := a.prices().Prices(ctx, append(symbols, l.Symbols()...))
				if err != nil {
					return err
				}
				fmt.Print(advisor.Prompt(papertrade.NewAdvisorContext(l, prices)))
				return nil
			})
		}

		g, err := advisor.NewGemini(ctx, a.cfg.Advisor.APIKey, a.cfg.Advisor.Model)
		if err != nil {
			return err
		}
		g.Temperature = a.cfg.Advisor.Temperature
		g.MaxTokens = a.cfg.Advisor.MaxTokens

		r, err := a.account.Advise(ctx, g, a.prices(), symbols...)
		if err != nil {
			return err
		}
		a.log.Debug("decision", zap.String("text", r.Decision))
		printMarkdown("# Decision\n\n" + r.Decision + "\n\n" + renderer.ResultsMarkdown(r.Results) + "\n" + renderer.AssetsMarkdown(r.Assets))
		return nil
	})
}
