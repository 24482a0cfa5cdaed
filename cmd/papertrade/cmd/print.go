package cmd

import (
	"fmt"

	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/market"
)

func printTradeResult(res engine.TradeResult) {
	t := res.Trade
	p := res.Position

	if t.Side == market.Buy {
		fmt.Printf("✓ Bought %s tokens for %s SOL @ %s SOL/token\n",
			t.TokenAmount, t.BaseAmount, t.Price)
	} else {
		fmt.Printf("✓ Sold %s tokens for %s SOL @ %s SOL/token\n",
			t.TokenAmount, t.BaseAmount, t.Price)
		fmt.Printf("  Realized on this sell: %s SOL\n", res.Realized)
	}

	fmt.Printf("  Trade %s (seq %d)\n", t.ID, t.Seq)
	fmt.Printf("  Position: %s tokens", p.Quantity)
	if !p.Flat() {
		fmt.Printf(" @ basis %s SOL/token", p.CostBasis)
	}
	fmt.Printf(", realized %s SOL\n", p.Realized)
}
