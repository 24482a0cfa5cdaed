// ledger/csv.go
package ledger

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/papertrade/market"
)

// ExportCSV writes a trade history as CSV, one row per trade in sequence
// order, with a header row.
func ExportCSV(w io.Writer, trades []market.Trade) error {
	cw := csv.NewWriter(w)

	header := []string{"seq", "trade_id", "mint", "side", "token_amount", "base_amount", "price", "slippage_bps", "executed_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			strconv.FormatInt(t.Seq, 10),
			t.ID,
			t.Mint,
			string(t.Side),
			t.TokenAmount.String(),
			t.BaseAmount.String(),
			t.Price.String(),
			strconv.Itoa(t.SlippageBps),
			t.Time.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
