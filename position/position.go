// Package position is the accounting core: a pure, deterministic fold over
// an instrument's trade sequence using the weighted-average cost method.
// A single scalar basis per instrument keeps the fold replayable from any
// checkpoint as long as sequence order is preserved; no lot tracking.
package position

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/market"
)

var (
	// ErrInsufficient means a sell asked for more tokens than the position
	// holds. Short positions are not modeled.
	ErrInsufficient = errors.New("insufficient position")

	// ErrNonPositive means a token or SOL amount was zero or negative.
	ErrNonPositive = errors.New("amount must be positive")
)

// ApplyBuy folds a buy of tokenAmount tokens for baseAmount SOL into p.
// The new cost basis is the quantity-weighted average of the old basis and
// the incoming price:
//
//	newBasis = (oldQty*oldBasis + baseAmount) / (oldQty + tokenAmount)
//
// Buys never produce realized PnL.
func ApplyBuy(p market.Position, tokenAmount, baseAmount decimal.Decimal, decimals int32) (market.Position, error) {
	if !tokenAmount.IsPositive() || !baseAmount.IsPositive() {
		return p, fmt.Errorf("apply buy: %w", ErrNonPositive)
	}

	newQty := p.Quantity.Add(tokenAmount)
	cost := p.Quantity.Mul(p.CostBasis).Add(baseAmount)

	p.Quantity = newQty
	p.CostBasis = cost.DivRound(newQty, decimals)
	return p, nil
}

// ApplySell folds a sell of tokenAmount tokens for baseAmount SOL into p and
// returns the realized PnL delta:
//
//	delta = tokenAmount * (baseAmount/tokenAmount - basis)
//
// The basis of the remaining quantity is unchanged (average-cost method);
// it resets to zero when the position is fully closed so the next buy
// starts a fresh average.
func ApplySell(p market.Position, tokenAmount, baseAmount decimal.Decimal, decimals int32) (market.Position, decimal.Decimal, error) {
	if !tokenAmount.IsPositive() || !baseAmount.IsPositive() {
		return p, decimal.Zero, fmt.Errorf("apply sell: %w", ErrNonPositive)
	}
	if tokenAmount.GreaterThan(p.Quantity) {
		return p, decimal.Zero, fmt.Errorf("apply sell: %w: have %s, want %s",
			ErrInsufficient, p.Quantity, tokenAmount)
	}

	price := baseAmount.DivRound(tokenAmount, decimals)
	delta := tokenAmount.Mul(price.Sub(p.CostBasis)).Round(decimals)

	p.Quantity = p.Quantity.Sub(tokenAmount)
	p.Realized = p.Realized.Add(delta)
	if p.Quantity.IsZero() {
		p.CostBasis = decimal.Zero
	}
	return p, delta, nil
}

// Unrealized values the open quantity at mark:
//
//	openQty * (mark - basis)
//
// Zero when the position is flat, regardless of mark.
func Unrealized(p market.Position, mark decimal.Decimal, decimals int32) decimal.Decimal {
	if p.Flat() {
		return decimal.Zero
	}
	return p.Quantity.Mul(mark.Sub(p.CostBasis)).Round(decimals)
}

// Replay folds an ordered trade sequence from the empty position. The
// ledger's stored position must equal the replayed one exactly at the
// instrument's precision.
func Replay(mint string, trades []market.Trade, decimals int32) (market.Position, error) {
	p := market.NewPosition(mint)
	for _, t := range trades {
		var err error
		switch t.Side {
		case market.Buy:
			p, err = ApplyBuy(p, t.TokenAmount, t.BaseAmount, decimals)
		case market.Sell:
			p, _, err = ApplySell(p, t.TokenAmount, t.BaseAmount, decimals)
		default:
			err = fmt.Errorf("unknown side %q", t.Side)
		}
		if err != nil {
			return p, fmt.Errorf("replay %s seq %d: %w", mint, t.Seq, err)
		}
	}
	return p, nil
}
