// market/position.go
package market

import "github.com/shopspring/decimal"

// Position is the materialized fold of an instrument's trade sequence:
// how many tokens are open, at what weighted-average SOL cost, and how much
// PnL has been locked in by sells so far. Replaying the trades from an
// empty position must reproduce it exactly.
type Position struct {
	Mint      string
	Quantity  decimal.Decimal // open tokens, never negative
	CostBasis decimal.Decimal // SOL per token; zero while Quantity is zero
	Realized  decimal.Decimal // cumulative realized PnL in SOL, signed
}

// NewPosition returns the empty position for mint.
func NewPosition(mint string) Position {
	return Position{
		Mint:      mint,
		Quantity:  decimal.Zero,
		CostBasis: decimal.Zero,
		Realized:  decimal.Zero,
	}
}

// Flat reports whether the position has no open quantity.
func (p Position) Flat() bool {
	return p.Quantity.Sign() <= 0
}
