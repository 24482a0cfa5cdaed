package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/ledger"
)

var historyCSV bool

var historyCmd = &cobra.Command{
	Use:   "history <mint>",
	Short: "List the recorded trades for a token",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyCSV, "csv", false, "write history as CSV to stdout")
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withEngine(func(e *engine.Engine) error {
		trades, err := e.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if historyCSV {
			return ledger.ExportCSV(os.Stdout, trades)
		}

		if len(trades) == 0 {
			fmt.Printf("no trades recorded for %s\n", args[0])
			return nil
		}

		for _, t := range trades {
			fmt.Printf("%4d  %s  %-4s  %s tokens for %s SOL @ %s  (%s)\n",
				t.Seq,
				t.Time.UTC().Format(time.RFC3339),
				t.Side,
				t.TokenAmount, t.BaseAmount, t.Price,
				t.ID)
		}
		return nil
	})
}
