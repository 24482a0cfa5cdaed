// ledger/schema.go
package ledger

// Amounts are stored as decimal strings, not REAL: SQLite floats would
// round-trip through binary floating point and break exact replay.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	mint TEXT NOT NULL,
	side TEXT NOT NULL,
	token_amount TEXT NOT NULL,
	base_amount TEXT NOT NULL,
	price TEXT NOT NULL,
	slippage_bps INTEGER NOT NULL,
	executed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_mint ON trades(mint);

CREATE TABLE IF NOT EXISTS positions (
	mint TEXT PRIMARY KEY,
	quantity TEXT NOT NULL,
	cost_basis TEXT NOT NULL,
	realized_pnl TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`
