package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ResultStore = (*SQLiteStore)(nil)

// SQLiteStore implements ResultStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs the
// schema migration, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating result store: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	strategy          TEXT NOT NULL,
	params            TEXT NOT NULL,
	symbol            TEXT NOT NULL,
	first_bar         INTEGER NOT NULL,
	last_bar          INTEGER NOT NULL,
	created_at        INTEGER NOT NULL,
	total_return      REAL NOT NULL,
	annualized_return REAL NOT NULL,
	max_drawdown      REAL NOT NULL,
	sharpe_ratio      REAL NOT NULL,
	sortino_ratio     REAL NOT NULL,
	trade_count       INTEGER NOT NULL,
	win_rate          REAL NOT NULL,
	average_win       REAL NOT NULL,
	average_loss      REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy, created_at);

CREATE TABLE IF NOT EXISTS run_trades (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	seq        INTEGER NOT NULL,
	timestamp  INTEGER NOT NULL,
	action     TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	price      REAL NOT NULL,
	cash_after REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);`)
	return err
}

// SaveRun persists a run record and its trades in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (
	id, strategy, params, symbol, first_bar, last_bar, created_at,
	total_return, annualized_return, max_drawdown, sharpe_ratio,
	sortino_ratio, trade_count, win_rate, average_win, average_loss
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Strategy, run.Params, run.Symbol,
		run.FirstBar.UnixMilli(), run.LastBar.UnixMilli(), run.CreatedAt.UnixMilli(),
		run.Summary.TotalReturn, run.Summary.AnnualizedReturn, run.Summary.MaxDrawdown,
		run.Summary.SharpeRatio, run.Summary.SortinoRatio, run.Summary.TradeCount,
		run.Summary.WinRate, run.Summary.AverageWin, run.Summary.AverageLoss,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for i, t := range run.Trades {
		_, err = tx.ExecContext(ctx, `
INSERT INTO run_trades (run_id, seq, timestamp, action, quantity, price, cash_after)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, t.Timestamp.UnixMilli(), string(t.Action), t.Qty, t.Price, t.CashAfter,
		)
		if err != nil {
			return fmt.Errorf("inserting trade %d of run %s: %w", i, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a single run with its trades by ID. Returns sql.ErrNoRows
// wrapped if the run does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, strategy, params, symbol, first_bar, last_bar, created_at,
	total_return, annualized_return, max_drawdown, sharpe_ratio,
	sortino_ratio, trade_count, win_rate, average_win, average_loss
FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT timestamp, action, quantity, price, cash_after
FROM run_trades WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts int64
		var action string
		var t domain.Trade
		if err := rows.Scan(&ts, &action, &t.Qty, &t.Price, &t.CashAfter); err != nil {
			return nil, err
		}
		t.Timestamp = time.UnixMilli(ts).UTC()
		t.Action = domain.TradeAction(action)
		run.Trades = append(run.Trades, t)
	}
	return run, rows.Err()
}

// ListRuns returns run records for a strategy, newest first, without their
// trades. An empty strategy name matches all runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, strategy string) ([]RunRecord, error) {
	query := `
SELECT id, strategy, params, symbol, first_bar, last_bar, created_at,
	total_return, annualized_return, max_drawdown, sharpe_ratio,
	sortino_ratio, trade_count, win_rate, average_win, average_loss
FROM runs`
	args := []any{}
	if strategy != "" {
		query += ` WHERE strategy = ?`
		args = append(args, strategy)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*RunRecord, error) {
	var run RunRecord
	var firstBar, lastBar, createdAt int64
	err := sc.Scan(
		&run.ID, &run.Strategy, &run.Params, &run.Symbol,
		&firstBar, &lastBar, &createdAt,
		&run.Summary.TotalReturn, &run.Summary.AnnualizedReturn, &run.Summary.MaxDrawdown,
		&run.Summary.SharpeRatio, &run.Summary.SortinoRatio, &run.Summary.TradeCount,
		&run.Summary.WinRate, &run.Summary.AverageWin, &run.Summary.AverageLoss,
	)
	if err != nil {
		return nil, err
	}
	run.FirstBar = time.UnixMilli(firstBar).UTC()
	run.LastBar = time.UnixMilli(lastBar).UTC()
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &run, nil
}
