package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
)

var buyCmd = &cobra.Command{
	Use:   "buy <mint> <sol-amount>",
	Short: "Simulate buying a token with SOL",
	Long: `Simulate spending SOL on a token at the current Jupiter quote.

The trade and the updated position are recorded in the ledger.

Example:
  papertrade buy DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runBuy,
}

func init() {
	rootCmd.AddCommand(buyCmd)
}

func runBuy(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	return withEngine(func(e *engine.Engine) error {
		res, err := e.Buy(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}
		printTradeResult(res)
		return nil
	})
}
