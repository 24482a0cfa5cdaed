package position

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/market"
)

const prec = market.DefaultDecimals

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyBuyWeightedAverage(t *testing.T) {
	t.Parallel()

	p := market.NewPosition("MINT")

	// 2.0 SOL for 10 tokens, then 3.0 SOL for 10 tokens:
	// 20 tokens at basis (2+3)/20 = 0.25
	p, err := ApplyBuy(p, dec("10"), dec("2.0"), prec)
	require.NoError(t, err)
	p, err = ApplyBuy(p, dec("10"), dec("3.0"), prec)
	require.NoError(t, err)

	assert.True(t, p.Quantity.Equal(dec("20")), "quantity %s", p.Quantity)
	assert.True(t, p.CostBasis.Equal(dec("0.25")), "basis %s", p.CostBasis)
	assert.True(t, p.Realized.IsZero())
}

func TestApplyBuyBasisIsTotalCostOverTotalTokens(t *testing.T) {
	t.Parallel()

	buys := []struct{ tokens, sol string }{
		{"100", "1.5"},
		{"33.333333333", "0.7"},
		{"250", "12.125"},
		{"0.000000001", "0.000000001"},
	}

	p := market.NewPosition("MINT")
	totalTokens := decimal.Zero
	totalSOL := decimal.Zero

	for _, b := range buys {
		var err error
		p, err = ApplyBuy(p, dec(b.tokens), dec(b.sol), prec)
		require.NoError(t, err)
		totalTokens = totalTokens.Add(dec(b.tokens))
		totalSOL = totalSOL.Add(dec(b.sol))
	}

	assert.True(t, p.Quantity.Equal(totalTokens))
	want := totalSOL.DivRound(totalTokens, prec)
	assert.True(t, p.CostBasis.Equal(want), "basis %s want %s", p.CostBasis, want)
}

func TestApplyBuyRejectsNonPositive(t *testing.T) {
	t.Parallel()

	p := market.NewPosition("MINT")

	_, err := ApplyBuy(p, decimal.Zero, dec("1"), prec)
	assert.ErrorIs(t, err, ErrNonPositive)

	_, err = ApplyBuy(p, dec("1"), dec("-0.5"), prec)
	assert.ErrorIs(t, err, ErrNonPositive)
}

func TestApplySellRealized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		sellTokens   string
		sellSOL      string
		wantDelta    string
		wantQty      string
		wantBasis    string
	}{
		{
			// 100 tokens at basis 2.0, sell 100 at 2.5
			name:       "full_close_above_basis",
			sellTokens: "100",
			sellSOL:    "250",
			wantDelta:  "50",
			wantQty:    "0",
			wantBasis:  "0", // reset on full close
		},
		{
			name:       "partial_close_at_basis",
			sellTokens: "40",
			sellSOL:    "80",
			wantDelta:  "0",
			wantQty:    "60",
			wantBasis:  "2",
		},
		{
			name:       "partial_close_below_basis",
			sellTokens: "50",
			sellSOL:    "75",
			wantDelta:  "-25",
			wantQty:    "50",
			wantBasis:  "2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := market.Position{
				Mint:      "MINT",
				Quantity:  dec("100"),
				CostBasis: dec("2.0"),
				Realized:  decimal.Zero,
			}

			p, delta, err := ApplySell(p, dec(tt.sellTokens), dec(tt.sellSOL), prec)
			require.NoError(t, err)

			assert.True(t, delta.Equal(dec(tt.wantDelta)), "delta %s", delta)
			assert.True(t, p.Quantity.Equal(dec(tt.wantQty)), "qty %s", p.Quantity)
			assert.True(t, p.CostBasis.Equal(dec(tt.wantBasis)), "basis %s", p.CostBasis)
			assert.True(t, p.Realized.Equal(delta))
		})
	}
}

func TestApplySellInsufficientLeavesPositionUnchanged(t *testing.T) {
	t.Parallel()

	before := market.Position{
		Mint:      "MINT",
		Quantity:  dec("10"),
		CostBasis: dec("1.5"),
		Realized:  dec("3"),
	}

	after, delta, err := ApplySell(before, dec("10.000000001"), dec("20"), prec)
	assert.ErrorIs(t, err, ErrInsufficient)
	assert.True(t, delta.IsZero())
	assert.True(t, after.Quantity.Equal(before.Quantity))
	assert.True(t, after.CostBasis.Equal(before.CostBasis))
	assert.True(t, after.Realized.Equal(before.Realized))
}

func TestBasisResetAfterFullCloseStartsFreshAverage(t *testing.T) {
	t.Parallel()

	p := market.NewPosition("MINT")

	p, err := ApplyBuy(p, dec("10"), dec("50"), prec) // basis 5
	require.NoError(t, err)
	p, _, err = ApplySell(p, dec("10"), dec("60"), prec)
	require.NoError(t, err)
	require.True(t, p.Flat())

	// Next buy must not be averaged against the old 5.0 basis.
	p, err = ApplyBuy(p, dec("10"), dec("10"), prec)
	require.NoError(t, err)
	assert.True(t, p.CostBasis.Equal(dec("1")), "basis %s", p.CostBasis)
	assert.True(t, p.Realized.Equal(dec("10")))
}

func TestUnrealized(t *testing.T) {
	t.Parallel()

	p := market.Position{
		Mint:      "MINT",
		Quantity:  dec("100"),
		CostBasis: dec("2.0"),
	}

	got := Unrealized(p, dec("2.2"), prec)
	assert.True(t, got.Equal(dec("20")), "unrealized %s", got)

	got = Unrealized(p, dec("1.5"), prec)
	assert.True(t, got.Equal(dec("-50")), "unrealized %s", got)

	flat := market.NewPosition("MINT")
	assert.True(t, Unrealized(flat, dec("999"), prec).IsZero())
	assert.True(t, Unrealized(flat, decimal.Zero, prec).IsZero())
}

func TestScenarioBuyBuySellMark(t *testing.T) {
	t.Parallel()

	// buy 100 tokens for 100 SOL (basis 1.0), buy 100 tokens for 300 SOL
	// (basis 2.0), sell 100 at 2.5 (realized 50), mark 2.2 (unrealized 20).
	p := market.NewPosition("MINT")

	p, err := ApplyBuy(p, dec("100"), dec("100"), prec)
	require.NoError(t, err)
	assert.True(t, p.CostBasis.Equal(dec("1")))

	p, err = ApplyBuy(p, dec("100"), dec("300"), prec)
	require.NoError(t, err)
	assert.True(t, p.CostBasis.Equal(dec("2")))

	p, delta, err := ApplySell(p, dec("100"), dec("250"), prec)
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("50")), "delta %s", delta)
	assert.True(t, p.Quantity.Equal(dec("100")))
	assert.True(t, p.CostBasis.Equal(dec("2")))

	unreal := Unrealized(p, dec("2.2"), prec)
	assert.True(t, unreal.Equal(dec("20")), "unrealized %s", unreal)
	assert.True(t, p.Realized.Add(unreal).Equal(dec("70")))
}

func TestReplayReproducesFold(t *testing.T) {
	t.Parallel()

	trades := []market.Trade{
		{Seq: 1, Mint: "MINT", Side: market.Buy, TokenAmount: dec("100"), BaseAmount: dec("2.5")},
		{Seq: 2, Mint: "MINT", Side: market.Buy, TokenAmount: dec("33.333333333"), BaseAmount: dec("1.1")},
		{Seq: 3, Mint: "MINT", Side: market.Sell, TokenAmount: dec("50"), BaseAmount: dec("2")},
		{Seq: 4, Mint: "MINT", Side: market.Buy, TokenAmount: dec("7"), BaseAmount: dec("0.000000009")},
		{Seq: 5, Mint: "MINT", Side: market.Sell, TokenAmount: dec("90.333333333"), BaseAmount: dec("4.25")},
	}

	want := market.NewPosition("MINT")
	for _, tr := range trades {
		var err error
		switch tr.Side {
		case market.Buy:
			want, err = ApplyBuy(want, tr.TokenAmount, tr.BaseAmount, prec)
		case market.Sell:
			want, _, err = ApplySell(want, tr.TokenAmount, tr.BaseAmount, prec)
		}
		require.NoError(t, err)
	}

	got, err := Replay("MINT", trades, prec)
	require.NoError(t, err)

	// Bit-for-bit at the configured precision.
	assert.Equal(t, want.Quantity.String(), got.Quantity.String())
	assert.Equal(t, want.CostBasis.String(), got.CostBasis.String())
	assert.Equal(t, want.Realized.String(), got.Realized.String())
}

func TestReplayRejectsOversell(t *testing.T) {
	t.Parallel()

	trades := []market.Trade{
		{Seq: 1, Mint: "MINT", Side: market.Buy, TokenAmount: dec("10"), BaseAmount: dec("1")},
		{Seq: 2, Mint: "MINT", Side: market.Sell, TokenAmount: dec("11"), BaseAmount: dec("2")},
	}

	_, err := Replay("MINT", trades, prec)
	assert.ErrorIs(t, err, ErrInsufficient)
}
