package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/papertrade"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ptd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Account, cfg.Account)

	cash, err := cfg.Cash()
	require.NoError(t, err)
	assert.True(t, cash.Equal(papertrade.USD(100000)))
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
account: paper.json
initial_cash: "50,000.50"
prices:
  file: quotes.json
  expr: $.quotes[%q].last
advisor:
  model: gemini-test
  symbols: [AAPL, MSFT]
log_level: debug
`)
	t.Setenv("PTD_ACCOUNT", "override.json")
	t.Setenv("PTD_ADVISOR_SYMBOLS", "NVDA,TSLA")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.json", cfg.Account)
	assert.Equal(t, "quotes.json", cfg.Prices.File)
	assert.Equal(t, "$.quotes[%q].last", cfg.Prices.Expr)
	assert.Equal(t, "gemini-test", cfg.Advisor.Model)
	assert.Equal(t, []string{"NVDA", "TSLA"}, cfg.Advisor.Symbols)
	assert.Equal(t, "secret", cfg.Advisor.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)

	cash, err := cfg.Cash()
	require.NoError(t, err)
	assert.Equal(t, "50000.5", cash.Decimal().String())
}

func TestPrefixedKeyWins(t *testing.T) {
	t.Setenv("PTD_ADVISOR_API_KEY", "mine")
	t.Setenv("GEMINI_API_KEY", "shared")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.Advisor.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero cash", func(c *Config) { c.InitialCash = "0" }, false},
		{"negative cash", func(c *Config) { c.InitialCash = "-10" }, false},
		{"not a number", func(c *Config) { c.InitialCash = "lots" }, false},
		{"no account", func(c *Config) { c.Account = "" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"negative tokens", func(c *Config) { c.Advisor.MaxTokens = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "account: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}
