// market/trade.go
package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side of a simulated execution.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Trade is one simulated execution against SOL. Trades are append-only:
// once the ledger has accepted one it is never mutated or deleted.
type Trade struct {
	ID          string // ULID, time-sortable
	Seq         int64  // assigned by the ledger, strictly increasing
	Mint        string
	Side        Side
	TokenAmount decimal.Decimal // instrument tokens moved
	BaseAmount  decimal.Decimal // SOL moved
	Price       decimal.Decimal // SOL per token, BaseAmount / TokenAmount
	SlippageBps int
	Time        time.Time
}
