package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/papertrade/renderer"
)

type executeCmd struct {
	file string
}

func (*executeCmd) Name() string     { return "execute" }
func (*executeCmd) Synopsis() string { return "execute a trading decision" }
func (*executeCmd) Usage() string {
	return `ptd execute [-f <file>] [<decision>...]

  Parses a decision and executes every instruction found on the account.
  The decision is read from the arguments, from a file with -f, or from the
  standard input with -f -. It can be JSON, markdown with JSON blocks, or
  sentences like "BUY 10 shares of AAPL at $150".

Usage Examples:
$ ptd execute 'BUY 10 AAPL'
$ echo '[{"action":"SELL","symbol":"AAPL","quantity":5}]' | ptd execute -f -
`
}

func (c *executeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "read the decision from a file, - for stdin")
}

func (c *executeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := c.decision(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		r, err := a.account.Run(ctx, text, a.prices())
		if err != nil {
			return err
		}
		printMarkdown(renderer.ResultsMarkdown(r.Results) + "\n" + renderer.AssetsMarkdown(r.Assets))
		return nil
	})
}

func (c *executeCmd) decision(args []string) (string, error) {
	switch {
	case c.file != "" && len(args) > 0:
		return "", fmt.Errorf("either -f or a decision must be provided, not both")
	case c.file == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case c.file != "":
		data, err := os.ReadFile(c.file)
		return string(data), err
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", fmt.Errorf("no decision provided")
	}
}
