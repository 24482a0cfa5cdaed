package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/quote"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "Paper-trade Solana tokens against live Jupiter quotes",
	Long: `Papertrade simulates spot trades of Solana tokens against SOL.

Every buy and sell is priced by the Jupiter quote API and recorded in a
local SQLite ledger. Positions use weighted-average cost accounting, so
realized and unrealized PnL are always consistent with the trade history.

No real transactions are ever sent and no funds are held.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is built-in defaults)")
}

func loadConfig() (*config.Config, error) {
	// A .env next to the binary may override quote URL and ledger path.
	_ = godotenv.Load()

	if cfgFile == "" {
		cfg := config.Default()
		if v := os.Getenv("PAPERTRADE_LEDGER_PATH"); v != "" {
			cfg.Ledger.Path = v
		}
		if v := os.Getenv("PAPERTRADE_QUOTE_URL"); v != "" {
			cfg.Quote.BaseURL = v
		}
		return cfg, nil
	}
	return config.LoadFromFile(cfgFile)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// withEngine builds the engine from configuration, runs fn, and tears
// everything down afterwards.
func withEngine(fn func(*engine.Engine) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := ledger.NewSQLite(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.Ledger.Path, err)
	}
	defer store.Close()

	timeout, err := cfg.Quote.ParseTimeout()
	if err != nil {
		return fmt.Errorf("quote timeout: %w", err)
	}

	opts := []quote.Option{
		quote.WithBaseURL(cfg.Quote.BaseURL),
		quote.WithSlippageBps(cfg.Quote.SlippageBps),
	}
	if timeout > 0 {
		opts = append(opts, quote.WithTimeout(timeout))
	}

	e := engine.New(store, quote.NewClient(opts...), log)
	for _, ic := range cfg.Instruments {
		e.RegisterInstrument(ic.Instrument())
	}

	return fn(e)
}
