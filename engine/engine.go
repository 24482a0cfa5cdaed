// Package engine orchestrates simulated trades: it validates requests,
// fetches execution prices, folds them through the position accountant and
// persists trade + position as one atomic unit. Calls on the same mint are
// strictly serialized; different mints proceed in parallel.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/internal/id"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/position"
)

// QuoteSource supplies execution prices. Implementations must bound each
// call (the engine holds the instrument lock across it) and report every
// failure as a quote.UnavailableError.
type QuoteSource interface {
	Swap(ctx context.Context, inst market.Instrument, side market.Side, amount decimal.Decimal) (decimal.Decimal, error)
	MarkPrice(ctx context.Context, inst market.Instrument) (decimal.Decimal, error)
	SlippageBps() int
}

// TradeResult is the outcome of a successful Buy, Sell or SellAll.
type TradeResult struct {
	Trade    market.Trade
	Position market.Position
	Realized decimal.Decimal // realized PnL delta; zero for buys
}

// Snapshot is an ephemeral PnL query result.
type Snapshot struct {
	Mint       string
	Quantity   decimal.Decimal
	Realized   decimal.Decimal
	Unrealized decimal.Decimal
	Total      decimal.Decimal
	MarkPrice  decimal.Decimal // zero when the position is flat
	Time       time.Time
}

type Engine struct {
	store  ledger.Ledger
	quotes QuoteSource
	log    *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	locks       map[string]*sync.RWMutex
	instruments map[string]market.Instrument
}

// New creates an engine on top of a ledger and a quote source. A nil
// logger disables logging.
func New(store ledger.Ledger, quotes QuoteSource, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		store:       store,
		quotes:      quotes,
		log:         log,
		now:         time.Now,
		locks:       make(map[string]*sync.RWMutex),
		instruments: make(map[string]market.Instrument),
	}
}

// RegisterInstrument overrides the metadata for a mint. Unregistered mints
// get the default precision.
func (e *Engine) RegisterInstrument(inst market.Instrument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instruments[inst.Mint] = inst
}

func (e *Engine) instrument(mint string) market.Instrument {
	e.mu.Lock()
	defer e.mu.Unlock()
	if inst, ok := e.instruments[mint]; ok {
		return inst
	}
	return market.Instrument{Mint: mint, Decimals: market.DefaultDecimals}
}

// lockFor returns the per-mint lock, creating it on first use. Only the
// map access is globally guarded; instrument locks never nest.
func (e *Engine) lockFor(mint string) *sync.RWMutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lk, ok := e.locks[mint]
	if !ok {
		lk = &sync.RWMutex{}
		e.locks[mint] = lk
	}
	return lk
}

// Buy simulates spending baseAmount SOL on the mint's token at the current
// quoted price. On any error nothing is written and the stored position is
// unchanged.
func (e *Engine) Buy(ctx context.Context, mint string, baseAmount decimal.Decimal) (TradeResult, error) {
	baseAmount = market.SOL.Quantize(baseAmount)
	if !baseAmount.IsPositive() {
		return TradeResult{}, fmt.Errorf("buy %s: %w", mint, ErrInvalidAmount)
	}
	inst := e.instrument(mint)

	lk := e.lockFor(mint)
	lk.Lock()
	defer lk.Unlock()

	pos, found, err := e.store.Position(ctx, mint)
	if err != nil {
		return TradeResult{}, fmt.Errorf("%w: load position: %v", ErrPersistence, err)
	}
	if !found {
		pos = market.NewPosition(mint)
	}

	tokens, err := e.quotes.Swap(ctx, inst, market.Buy, baseAmount)
	if err != nil {
		return TradeResult{}, err
	}
	tokens = inst.Quantize(tokens)

	newPos, err := position.ApplyBuy(pos, tokens, baseAmount, inst.Decimals)
	if err != nil {
		return TradeResult{}, err
	}

	t := market.Trade{
		ID:          id.New(),
		Mint:        mint,
		Side:        market.Buy,
		TokenAmount: tokens,
		BaseAmount:  baseAmount,
		Price:       baseAmount.DivRound(tokens, inst.Decimals),
		SlippageBps: e.quotes.SlippageBps(),
		Time:        e.now().UTC(),
	}

	seq, err := e.store.AppendTrade(ctx, t, newPos)
	if err != nil {
		e.log.Error("buy not recorded", zap.String("mint", mint), zap.Error(err))
		return TradeResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	t.Seq = seq

	e.log.Info("buy executed",
		zap.String("mint", mint),
		zap.String("sol_in", baseAmount.String()),
		zap.String("tokens_out", tokens.String()),
		zap.String("price", t.Price.String()),
		zap.Int64("seq", seq))

	return TradeResult{Trade: t, Position: newPos}, nil
}

// Sell simulates selling tokenAmount of the mint's token for SOL. The open
// quantity is checked before any price is fetched.
func (e *Engine) Sell(ctx context.Context, mint string, tokenAmount decimal.Decimal) (TradeResult, error) {
	inst := e.instrument(mint)
	tokenAmount = inst.Quantize(tokenAmount)
	if !tokenAmount.IsPositive() {
		return TradeResult{}, fmt.Errorf("sell %s: %w", mint, ErrInvalidAmount)
	}

	lk := e.lockFor(mint)
	lk.Lock()
	defer lk.Unlock()

	pos, found, err := e.store.Position(ctx, mint)
	if err != nil {
		return TradeResult{}, fmt.Errorf("%w: load position: %v", ErrPersistence, err)
	}
	if !found || pos.Quantity.LessThan(tokenAmount) {
		return TradeResult{}, fmt.Errorf("sell %s %s: %w", tokenAmount, mint, ErrInsufficientPosition)
	}

	return e.sellLocked(ctx, inst, pos, tokenAmount)
}

// SellAll closes the whole open position for mint.
func (e *Engine) SellAll(ctx context.Context, mint string) (TradeResult, error) {
	inst := e.instrument(mint)

	lk := e.lockFor(mint)
	lk.Lock()
	defer lk.Unlock()

	pos, found, err := e.store.Position(ctx, mint)
	if err != nil {
		return TradeResult{}, fmt.Errorf("%w: load position: %v", ErrPersistence, err)
	}
	if !found || pos.Flat() {
		return TradeResult{}, fmt.Errorf("sell all %s: %w", mint, ErrInsufficientPosition)
	}

	return e.sellLocked(ctx, inst, pos, pos.Quantity)
}

// sellLocked runs the quote-apply-persist sequence for a sell. Caller holds
// the instrument lock and has verified tokenAmount <= pos.Quantity.
func (e *Engine) sellLocked(ctx context.Context, inst market.Instrument, pos market.Position, tokenAmount decimal.Decimal) (TradeResult, error) {
	mint := inst.Mint

	solOut, err := e.quotes.Swap(ctx, inst, market.Sell, tokenAmount)
	if err != nil {
		return TradeResult{}, err
	}
	solOut = market.SOL.Quantize(solOut)

	newPos, delta, err := position.ApplySell(pos, tokenAmount, solOut, inst.Decimals)
	if err != nil {
		return TradeResult{}, err
	}

	t := market.Trade{
		ID:          id.New(),
		Mint:        mint,
		Side:        market.Sell,
		TokenAmount: tokenAmount,
		BaseAmount:  solOut,
		Price:       solOut.DivRound(tokenAmount, inst.Decimals),
		SlippageBps: e.quotes.SlippageBps(),
		Time:        e.now().UTC(),
	}

	seq, err := e.store.AppendTrade(ctx, t, newPos)
	if err != nil {
		e.log.Error("sell not recorded", zap.String("mint", mint), zap.Error(err))
		return TradeResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	t.Seq = seq

	e.log.Info("sell executed",
		zap.String("mint", mint),
		zap.String("tokens_in", tokenAmount.String()),
		zap.String("sol_out", solOut.String()),
		zap.String("realized", delta.String()),
		zap.Int64("seq", seq))

	return TradeResult{Trade: t, Position: newPos, Realized: delta}, nil
}

// PnL reports realized plus marked-to-market unrealized PnL for mint. A
// flat or never-traded position is answered without a quote call; once
// there is open quantity, a failed mark quote is a hard error rather than
// stale PnL.
func (e *Engine) PnL(ctx context.Context, mint string) (Snapshot, error) {
	inst := e.instrument(mint)

	lk := e.lockFor(mint)
	lk.RLock()
	defer lk.RUnlock()

	pos, found, err := e.store.Position(ctx, mint)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: load position: %v", ErrPersistence, err)
	}
	if !found {
		pos = market.NewPosition(mint)
	}

	snap := Snapshot{
		Mint:     mint,
		Quantity: pos.Quantity,
		Realized: pos.Realized,
		Time:     e.now().UTC(),
	}

	if pos.Flat() {
		snap.Unrealized = decimal.Zero
		snap.Total = pos.Realized
		return snap, nil
	}

	mark, err := e.quotes.MarkPrice(ctx, inst)
	if err != nil {
		return Snapshot{}, err
	}

	snap.MarkPrice = mark
	snap.Unrealized = position.Unrealized(pos, mark, inst.Decimals)
	snap.Total = snap.Realized.Add(snap.Unrealized)
	return snap, nil
}

// History returns the full trade sequence for mint, oldest first.
func (e *Engine) History(ctx context.Context, mint string) ([]market.Trade, error) {
	lk := e.lockFor(mint)
	lk.RLock()
	defer lk.RUnlock()

	trades, err := e.store.Trades(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("%w: list trades: %v", ErrPersistence, err)
	}
	return trades, nil
}
