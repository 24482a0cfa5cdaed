package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/market"
)

// SQLite is a file-backed Ledger.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a ledger at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// AppendTrade inserts the trade and upserts the position in one
// transaction. Returns the sequence number SQLite assigned to the trade.
func (l *SQLite) AppendTrade(ctx context.Context, t market.Trade, p market.Position) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, mint, side, token_amount, base_amount, price, slippage_bps, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Mint, string(t.Side),
		t.TokenAmount.String(), t.BaseAmount.String(), t.Price.String(),
		t.SlippageBps, t.Time.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert trade: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("trade seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO positions (mint, quantity, cost_basis, realized_pnl, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(mint) DO UPDATE SET
			quantity = excluded.quantity,
			cost_basis = excluded.cost_basis,
			realized_pnl = excluded.realized_pnl,
			updated_at = excluded.updated_at`,
		p.Mint, p.Quantity.String(), p.CostBasis.String(), p.Realized.String(),
		t.Time.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

// Position returns the stored position for mint, with found=false when the
// mint has never traded.
func (l *SQLite) Position(ctx context.Context, mint string) (market.Position, bool, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT quantity, cost_basis, realized_pnl
		FROM positions
		WHERE mint = ?`, mint)

	var qty, basis, realized string
	err := row.Scan(&qty, &basis, &realized)
	if err == sql.ErrNoRows {
		return market.Position{}, false, nil
	}
	if err != nil {
		return market.Position{}, false, err
	}

	p := market.Position{Mint: mint}
	if p.Quantity, err = decimal.NewFromString(qty); err != nil {
		return market.Position{}, false, fmt.Errorf("parse quantity %q: %w", qty, err)
	}
	if p.CostBasis, err = decimal.NewFromString(basis); err != nil {
		return market.Position{}, false, fmt.Errorf("parse cost_basis %q: %w", basis, err)
	}
	if p.Realized, err = decimal.NewFromString(realized); err != nil {
		return market.Position{}, false, fmt.Errorf("parse realized_pnl %q: %w", realized, err)
	}
	return p, true, nil
}

// Trades returns the full trade sequence for mint in sequence order.
func (l *SQLite) Trades(ctx context.Context, mint string) ([]market.Trade, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, trade_id, side, token_amount, base_amount, price, slippage_bps, executed_at
		FROM trades
		WHERE mint = ?
		ORDER BY seq ASC`, mint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Trade
	for rows.Next() {
		var (
			t                  market.Trade
			side               string
			tokens, base, prc  string
			executed           time.Time
		)
		if err := rows.Scan(&t.Seq, &t.ID, &side, &tokens, &base, &prc, &t.SlippageBps, &executed); err != nil {
			return nil, err
		}
		t.Mint = mint
		t.Side = market.Side(side)
		t.Time = executed
		if t.TokenAmount, err = decimal.NewFromString(tokens); err != nil {
			return nil, fmt.Errorf("trade %s token_amount %q: %w", t.ID, tokens, err)
		}
		if t.BaseAmount, err = decimal.NewFromString(base); err != nil {
			return nil, fmt.Errorf("trade %s base_amount %q: %w", t.ID, base, err)
		}
		if t.Price, err = decimal.NewFromString(prc); err != nil {
			return nil, fmt.Errorf("trade %s price %q: %w", t.ID, prc, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
