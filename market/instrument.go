// market/instrument.go
package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SOLMint is the wrapped-SOL mint address. Every instrument trades against it.
const SOLMint = "So11111111111111111111111111111111111111112"

// DefaultDecimals is the fractional precision used for an instrument unless
// its configuration says otherwise. SOL itself uses 9 (lamports).
const DefaultDecimals int32 = 9

// Instrument is a token identified by its mint address, always quoted
// against SOL.
type Instrument struct {
	Mint     string
	Symbol   string
	Decimals int32
}

// SOL is the base asset.
var SOL = Instrument{
	Mint:     SOLMint,
	Symbol:   "SOL",
	Decimals: 9,
}

// Quantize truncates d to the instrument's declared precision.
func (i Instrument) Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(i.Decimals)
}

// ToBaseUnits converts a token amount to integer base units (lamports for
// SOL). Fractions below the instrument's precision are truncated.
func (i Instrument) ToBaseUnits(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", d)
	}
	return d.Shift(i.Decimals).IntPart(), nil
}

// FromBaseUnits converts integer base units back to a token amount.
func (i Instrument) FromBaseUnits(units int64) decimal.Decimal {
	return decimal.New(units, -i.Decimals)
}
