package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
)

var sellCmd = &cobra.Command{
	Use:   "sell <mint> <token-amount>",
	Short: "Simulate selling tokens for SOL",
	Long: `Simulate selling part of an open position at the current Jupiter
quote. Fails if the position holds fewer tokens than requested.

Example:
  papertrade sell DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263 1000`,
	Args: cobra.ExactArgs(2),
	RunE: runSell,
}

var sellAllCmd = &cobra.Command{
	Use:   "sellall <mint>",
	Short: "Simulate selling the entire open position",
	Args:  cobra.ExactArgs(1),
	RunE:  runSellAll,
}

func init() {
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(sellAllCmd)
}

func runSell(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	return withEngine(func(e *engine.Engine) error {
		res, err := e.Sell(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}
		printTradeResult(res)
		return nil
	})
}

func runSellAll(cmd *cobra.Command, args []string) error {
	return withEngine(func(e *engine.Engine) error {
		res, err := e.SellAll(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printTradeResult(res)
		return nil
	})
}
