// Package config loads the settings of the ptd command.
//
// Values come from, in increasing priority: defaults, a YAML file, a .env file
// and the environment (variables prefixed with PTD_).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/etnz/papertrade"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PTD_"

// Config is the ptd configuration.
type Config struct {
	Account     string        `yaml:"account" env:"ACCOUNT"`
	InitialCash string        `yaml:"initial_cash" env:"INITIAL_CASH"`
	Prices      PricesConfig  `yaml:"prices" envPrefix:"PRICES_"`
	Journal     string        `yaml:"journal" env:"JOURNAL"` // empty disables the journal
	Advisor     AdvisorConfig `yaml:"advisor" envPrefix:"ADVISOR_"`
	LogLevel    string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// PricesConfig locates market prices in a JSON quotes file or service.
type PricesConfig struct {
	File string `yaml:"file" env:"FILE"`
	URL  string `yaml:"url" env:"URL"`   // %s is the symbol, takes precedence over File
	Expr string `yaml:"expr" env:"EXPR"` // JSONPath, %q is the symbol
}

// AdvisorConfig configures the Gemini advisor.
type AdvisorConfig struct {
	Model       string   `yaml:"model" env:"MODEL"`
	Temperature float32  `yaml:"temperature" env:"TEMPERATURE"`
	MaxTokens   int32    `yaml:"max_tokens" env:"MAX_TOKENS"`
	Symbols     []string `yaml:"symbols" env:"SYMBOLS" envSeparator:","`
	APIKey      string   `yaml:"-" env:"API_KEY"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Account:     "ledger.json",
		InitialCash: "100000",
		Prices: PricesConfig{
			File: "prices.json",
			Expr: papertrade.DefaultQuoteExpr,
		},
		Advisor: AdvisorConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
			MaxTokens:   2048,
		},
		LogLevel: "info",
	}
}

// Load reads the configuration. path is an optional YAML file, a missing file
// is not an error. A .env file in the working directory is loaded if present,
// without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %q: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Advisor.APIKey == "" {
		var gemini struct {
			APIKey string `env:"GEMINI_API_KEY"`
		}
		if err := env.Parse(&gemini); err != nil {
			return cfg, fmt.Errorf("parse environment: %w", err)
		}
		cfg.Advisor.APIKey = gemini.APIKey
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Cash returns the initial cash of new accounts, in USD.
func (c Config) Cash() (papertrade.Money, error) {
	m, err := papertrade.ParseMoney(c.InitialCash)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("initial_cash %q: %w", c.InitialCash, err)
	}
	return m, nil
}

// Level returns the log level.
func (c Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Account == "" {
		errs = append(errs, errors.New("account is required"))
	}
	if cash, err := c.Cash(); err != nil {
		errs = append(errs, err)
	} else if !cash.IsPositive() {
		errs = append(errs, fmt.Errorf("initial_cash must be positive, got %s", c.InitialCash))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Advisor.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("advisor.max_tokens must not be negative, got %d", c.Advisor.MaxTokens))
	}
	return errors.Join(errs...)
}
