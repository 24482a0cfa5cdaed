// ledger/ledger.go
package ledger

import (
	"context"

	"github.com/rustyeddy/papertrade/market"
)

// Ledger is the durable record of simulated trades plus the materialized
// position per mint. AppendTrade writes the trade and the updated position
// as one atomic unit and returns the sequence number assigned to the trade:
// either both become visible together or neither does.
type Ledger interface {
	AppendTrade(ctx context.Context, t market.Trade, p market.Position) (int64, error)
	Position(ctx context.Context, mint string) (market.Position, bool, error)
	Trades(ctx context.Context, mint string) ([]market.Trade, error)
	Close() error
}
