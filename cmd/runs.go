package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/papertrade/renderer"
)

type runsCmd struct {
	limit int
	id    string
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "display the journal of runs" }
func (*runsCmd) Usage() string {
	return `ptd runs [-n <count>] [-id <run>]

  Lists the runs recorded in the journal, most recent first. With -id, prints
  the decision text of that run. Requires a journal in the configuration.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of runs to display, 0 for all")
	f.StringVar(&c.id, "id", "", "print the decision of this run")
}

func (c *runsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit < 0 {
		return subcommands.ExitUsageError
	}
	return run(ctx, func(ctx context.Context, a *app) error {
		if a.journal == nil {
			return errors.New("no journal configured, set journal in the configuration or PTD_JOURNAL")
		}
		if c.id != "" {
			decision, err := a.journal.Decision(ctx, c.id)
			if err != nil {
				return err
			}
			fmt.Println(decision)
			return nil
		}
		runs, err := a.journal.ListRuns(ctx, c.limit)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RunsMarkdown(runs))
		return nil
	})
}
