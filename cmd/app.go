// Package cmd implements the ptd CLI to manage a paper trading account.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/etnz/papertrade"
	"github.com/etnz/papertrade/config"
	"github.com/etnz/papertrade/journal"
)

// Commands are all the ptd subcommands.
var Commands = []subcommands.Command{
	&statusCmd{},
	&assetsCmd{},
	&historyCmd{},
	&executeCmd{},
	&adviseCmd{},
	&runsCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "ptd.yaml", "Path to the YAML configuration file")
	accountFile = flag.String("account", "", "Path to the account file, overrides the configuration")
	pricesFile  = flag.String("prices", "", "Path to the JSON quotes file, overrides the configuration")
	verbose     = flag.Bool("v", false, "Log debug messages")
)

// app is what a command needs to work on the account.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	account *papertrade.Account
	journal *journal.SQLite // nil when disabled
}

// openApp loads the configuration and opens the account and its journal.
func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *accountFile != "" {
		cfg.Account = *accountFile
	}
	if *pricesFile != "" {
		cfg.Prices.File = *pricesFile
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if *verbose {
		level = zapcore.DebugLevel
	}
	logger, err := NewLogger(level)
	if err != nil {
		return nil, err
	}
	cash, err := cfg.Cash()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger}
	opts := []papertrade.AccountOption{papertrade.WithLogger(logger)}
	if cfg.Journal != "" {
		a.journal, err = journal.NewSQLite(cfg.Journal)
		if err != nil {
			return nil, fmt.Errorf("cannot open journal %q: %w", cfg.Journal, err)
		}
		opts = append(opts, papertrade.WithRecorder(a.journal))
	}
	a.account = papertrade.OpenAccount(cfg.Account, cash, opts...)
	return a, nil
}

// prices returns the configured price source. Without a quotes file no price is known.
func (a *app) prices() papertrade.PriceSource {
	if a.cfg.Prices.URL != "" {
		return papertrade.QuoteURL{URL: a.cfg.Prices.URL, Expr: a.cfg.Prices.Expr}
	}
	if !exists(a.cfg.Prices.File) {
		a.log.Warn("no quotes file, market prices are unknown", zap.String("file", a.cfg.Prices.File))
		return papertrade.Prices{}
	}
	return papertrade.QuoteFile{Path: a.cfg.Prices.File, Expr: a.cfg.Prices.Expr}
}

// Close releases the journal and flushes the logs.
func (a *app) Close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	// stderr cannot be synced on every platform.
	_ = a.log.Sync()
	return errors.Join(errs...)
}

// run opens the app, calls fn and closes the app, reporting errors on stderr.
func run(ctx context.Context, fn func(context.Context, *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	err = fn(ctx, a)
	if cerr := a.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
