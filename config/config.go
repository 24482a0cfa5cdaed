package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrade/market"
)

// Config is the complete application configuration.
type Config struct {
	Ledger      LedgerConfig       `yaml:"ledger"`
	Quote       QuoteConfig        `yaml:"quote"`
	Logging     LoggingConfig      `yaml:"logging"`
	Instruments []InstrumentConfig `yaml:"instruments,omitempty"`
}

// LedgerConfig locates the trade ledger.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// QuoteConfig configures the Jupiter quote client.
type QuoteConfig struct {
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"` // e.g. "10s"
	SlippageBps int    `yaml:"slippage_bps"`
}

// ParseTimeout converts the timeout string to a time.Duration.
func (q QuoteConfig) ParseTimeout() (time.Duration, error) {
	if q.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(q.Timeout)
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// InstrumentConfig overrides metadata for a mint. Tokens whose mint is not
// listed get the default 9-decimal precision.
type InstrumentConfig struct {
	Mint     string `yaml:"mint"`
	Symbol   string `yaml:"symbol,omitempty"`
	Decimals int32  `yaml:"decimals"`
}

// LoadFromFile loads and validates a yaml configuration file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as yaml.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyEnv lets the environment (typically a .env file loaded by the CLI)
// override file settings.
func (c *Config) applyEnv() {
	if v := os.Getenv("PAPERTRADE_LEDGER_PATH"); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv("PAPERTRADE_QUOTE_URL"); v != "" {
		c.Quote.BaseURL = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	if c.Quote.BaseURL == "" {
		return fmt.Errorf("quote.base_url is required")
	}
	if _, err := c.Quote.ParseTimeout(); err != nil {
		return fmt.Errorf("quote.timeout: %w", err)
	}
	if c.Quote.SlippageBps < 0 || c.Quote.SlippageBps > 10000 {
		return fmt.Errorf("quote.slippage_bps must be between 0 and 10000")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	for _, inst := range c.Instruments {
		if inst.Mint == "" {
			return fmt.Errorf("instruments: mint is required")
		}
		if inst.Decimals < 0 || inst.Decimals > 18 {
			return fmt.Errorf("instrument %s: decimals must be between 0 and 18", inst.Mint)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Path: "./papertrade.sqlite",
		},
		Quote: QuoteConfig{
			BaseURL:     "https://quote-api.jup.ag/v6",
			Timeout:     "10s",
			SlippageBps: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Instrument converts an InstrumentConfig to market metadata.
func (ic InstrumentConfig) Instrument() market.Instrument {
	d := ic.Decimals
	if d == 0 {
		d = market.DefaultDecimals
	}
	return market.Instrument{Mint: ic.Mint, Symbol: ic.Symbol, Decimals: d}
}
