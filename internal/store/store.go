// Package store defines storage interfaces for bar datasets and completed
// backtest runs, with Parquet and SQLite implementations.
package store

import (
	"context"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/performance"
)

// BarStore persists and retrieves daily OHLCV bar data. It supplies the
// fully materialized bar sequence a simulation run consumes.
type BarStore interface {
	// WriteBars persists a batch of bars, merging with existing data.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol within [start, end],
	// ordered by timestamp.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols with stored bars.
	ListSymbols(ctx context.Context) ([]string, error)
}

// RunRecord is a completed backtest run: identity, the data range it covered,
// its summary metrics, and the trades it executed.
type RunRecord struct {
	ID        string
	Strategy  string
	Params    string
	Symbol    string
	FirstBar  time.Time
	LastBar   time.Time
	CreatedAt time.Time
	Summary   performance.Summary
	Trades    []domain.Trade
}

// ResultStore persists and retrieves completed backtest runs.
type ResultStore interface {
	// SaveRun persists a run record with its trades.
	SaveRun(ctx context.Context, run *RunRecord) error

	// GetRun retrieves a single run, including its trades, by ID.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns run records for a strategy, newest first, without
	// their trades. An empty strategy name matches all runs.
	ListRuns(ctx context.Context, strategy string) ([]RunRecord, error)
}
