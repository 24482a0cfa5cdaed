package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl <mint>",
	Short: "Show realized and unrealized PnL for a token",
	Long: `Show profit and loss for a token position.

Realized PnL comes from the ledger; unrealized PnL marks the open quantity
at the current Jupiter sell-side price. A token with no open quantity is
reported without fetching a quote.`,
	Args: cobra.ExactArgs(1),
	RunE: runPnL,
}

func init() {
	rootCmd.AddCommand(pnlCmd)
}

func runPnL(cmd *cobra.Command, args []string) error {
	return withEngine(func(e *engine.Engine) error {
		snap, err := e.PnL(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("PnL for %s\n", snap.Mint)
		fmt.Printf("  Open quantity:  %s\n", snap.Quantity)
		if !snap.MarkPrice.IsZero() {
			fmt.Printf("  Mark price:     %s SOL/token\n", snap.MarkPrice)
		}
		fmt.Printf("  Realized:       %s SOL\n", snap.Realized)
		fmt.Printf("  Unrealized:     %s SOL\n", snap.Unrealized)
		fmt.Printf("  Total:          %s SOL\n", snap.Total)
		return nil
	})
}
