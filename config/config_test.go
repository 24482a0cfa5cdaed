package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	d, err := cfg.Quote.ParseTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
ledger:
  path: /tmp/trades.sqlite
quote:
  base_url: https://quote.example.com/v6
  timeout: 3s
  slippage_bps: 100
logging:
  level: debug
instruments:
  - mint: BONKmint1111111111111111111111111111111111
    symbol: BONK
    decimals: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/trades.sqlite", cfg.Ledger.Path)
	assert.Equal(t, "https://quote.example.com/v6", cfg.Quote.BaseURL)
	assert.Equal(t, 100, cfg.Quote.SlippageBps)
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.Len(t, cfg.Instruments, 1)
	inst := cfg.Instruments[0].Instrument()
	assert.Equal(t, "BONK", inst.Symbol)
	assert.Equal(t, int32(5), inst.Decimals)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  path: ./x.db\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "./x.db", cfg.Ledger.Path)
	assert.Equal(t, Default().Quote.BaseURL, cfg.Quote.BaseURL)
	assert.Equal(t, Default().Quote.SlippageBps, cfg.Quote.SlippageBps)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  path: ./x.db\n"), 0644))

	t.Setenv("PAPERTRADE_LEDGER_PATH", "/env/trades.sqlite")
	t.Setenv("PAPERTRADE_QUOTE_URL", "https://env.example.com")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/env/trades.sqlite", cfg.Ledger.Path)
	assert.Equal(t, "https://env.example.com", cfg.Quote.BaseURL)
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_ledger_path", func(c *Config) { c.Ledger.Path = "" }},
		{"missing_quote_url", func(c *Config) { c.Quote.BaseURL = "" }},
		{"bad_timeout", func(c *Config) { c.Quote.Timeout = "soon" }},
		{"negative_slippage", func(c *Config) { c.Quote.SlippageBps = -1 }},
		{"huge_slippage", func(c *Config) { c.Quote.SlippageBps = 10001 }},
		{"bad_log_level", func(c *Config) { c.Logging.Level = "loud" }},
		{"instrument_no_mint", func(c *Config) {
			c.Instruments = []InstrumentConfig{{Decimals: 9}}
		}},
		{"instrument_bad_decimals", func(c *Config) {
			c.Instruments = []InstrumentConfig{{Mint: "M", Decimals: 19}}
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.Quote.SlippageBps = 75
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 75, loaded.Quote.SlippageBps)
}
