package ledger

import (
	"context"
	"sync"

	"github.com/rustyeddy/papertrade/market"
)

// Memory is an in-memory Ledger for tests and dry runs. It honors the same
// atomicity contract as SQLite: a failed append leaves nothing behind.
type Memory struct {
	mu        sync.Mutex
	trades    map[string][]market.Trade
	positions map[string]market.Position
	nextSeq   int64

	// FailAppend, when set, makes the next AppendTrade return the error
	// without writing. Used to exercise engine rollback paths.
	FailAppend error
}

func NewMemory() *Memory {
	return &Memory{
		trades:    make(map[string][]market.Trade),
		positions: make(map[string]market.Position),
	}
}

func (m *Memory) AppendTrade(ctx context.Context, t market.Trade, p market.Position) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppend != nil {
		return 0, m.FailAppend
	}

	m.nextSeq++
	t.Seq = m.nextSeq
	m.trades[t.Mint] = append(m.trades[t.Mint], t)
	m.positions[p.Mint] = p
	return t.Seq, nil
}

func (m *Memory) Position(ctx context.Context, mint string) (market.Position, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.positions[mint]
	return p, ok, nil
}

func (m *Memory) Trades(ctx context.Context, mint string) ([]market.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]market.Trade, len(m.trades[mint]))
	copy(out, m.trades[mint])
	return out, nil
}

func (m *Memory) Close() error { return nil }
