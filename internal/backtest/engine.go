// Package backtest implements the bar-by-bar portfolio simulation engine.
// The engine consumes an aligned (bar, signal) sequence strictly in
// chronological order; each step depends on the mutated cash/shares state of
// the previous step, so a run is a single sequential pass.
//
// The engine does not validate price positivity or timestamp monotonicity.
// Those are caller preconditions; violating them yields undefined results.
package backtest

import (
	"errors"
	"fmt"
	"math"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// ErrConfiguration is returned when the input is structurally unusable:
// missing signal or position-change sequences, or sequences not aligned with
// the bar history. No partial result is produced.
var ErrConfiguration = errors.New("backtest: configuration error")

// Result holds the complete output of one simulation run: one snapshot per
// input bar and one trade per executed order. Both are immutable once
// returned.
type Result struct {
	Snapshots []domain.Snapshot
	Trades    []domain.Trade
}

// Engine simulates order execution and portfolio state over a bar sequence
// according to an immutable run configuration.
type Engine struct {
	cfg domain.Config
}

// New creates an Engine for the given configuration.
func New(cfg domain.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes the simulation over the aligned bar and signal sequences.
//
// Per bar, in order: select the execution price (close, or next bar's open
// with a final-bar fallback to close), apply slippage, execute at most one
// all-or-nothing entry or full-position exit, then mark to market at the
// bar's own close. An entry whose cost exceeds available cash is rejected
// outright; cash never goes negative and shares are never sold short.
func (e *Engine) Run(bars []domain.Bar, sig *strategy.Result) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if sig == nil || sig.Signals == nil || sig.PositionChanges == nil {
		return nil, fmt.Errorf("%w: input lacks signal or position change sequence", ErrConfiguration)
	}
	if len(sig.Signals) != len(bars) || len(sig.PositionChanges) != len(bars) {
		return nil, fmt.Errorf("%w: signal sequences not aligned with %d bars", ErrConfiguration, len(bars))
	}

	execPrices := e.executionPrices(bars)

	cash := e.cfg.InitialCapital
	var shares int64

	snapshots := make([]domain.Snapshot, 0, len(bars))
	var trades []domain.Trade

	prevEquity := 0.0
	peakEquity := math.Inf(-1)

	for i, bar := range bars {
		buyPrice := execPrices[i] * (1 + e.cfg.SlippageFraction)
		sellPrice := execPrices[i] * (1 - e.cfg.SlippageFraction)

		switch {
		case sig.PositionChanges[i] > 0 && sig.Signals[i] == 1 && shares == 0:
			// Entering long. The shares==0 guard makes no-pyramiding an
			// engine invariant instead of an assumption about signal shape.
			target := e.targetShares(cash, buyPrice)
			if target > 0 {
				cost := float64(target)*buyPrice + e.cfg.CommissionPerTrade
				if cost <= cash {
					cash -= cost
					shares += target
					trades = append(trades, domain.Trade{
						Timestamp: bar.Timestamp,
						Action:    domain.ActionBuy,
						Qty:       target,
						Price:     buyPrice,
						CashAfter: cash,
					})
				}
			}
		case sig.PositionChanges[i] < 0 && sig.Signals[i] == 0 && shares > 0:
			// Exiting long: always the full position, never partial.
			proceeds := float64(shares)*sellPrice - e.cfg.CommissionPerTrade
			cash += proceeds
			trades = append(trades, domain.Trade{
				Timestamp: bar.Timestamp,
				Action:    domain.ActionSell,
				Qty:       shares,
				Price:     sellPrice,
				CashAfter: cash,
			})
			shares = 0
		}

		// Mark to market at the bar's own close, regardless of execution
		// price mode. Execution and valuation prices legitimately differ
		// under next_open.
		holdings := float64(shares) * bar.Close
		equity := cash + holdings

		periodReturn := 0.0
		if i > 0 && prevEquity != 0 {
			periodReturn = equity/prevEquity - 1
		}
		if equity > peakEquity {
			peakEquity = equity
		}
		drawdown := 0.0
		if peakEquity != 0 {
			drawdown = equity/peakEquity - 1
		}

		snapshots = append(snapshots, domain.Snapshot{
			Timestamp:    bar.Timestamp,
			Cash:         cash,
			Shares:       shares,
			Holdings:     holdings,
			Equity:       equity,
			PeriodReturn: periodReturn,
			Drawdown:     drawdown,
		})
		prevEquity = equity
	}

	return &Result{Snapshots: snapshots, Trades: trades}, nil
}

// executionPrices resolves the per-bar order execution price. Under
// next_open the final bar has no successor and falls back to its own close.
func (e *Engine) executionPrices(bars []domain.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, bar := range bars {
		if e.cfg.ExecPrice == domain.ExecNextOpen && i < len(bars)-1 {
			prices[i] = bars[i+1].Open
		} else {
			prices[i] = bar.Close
		}
	}
	return prices
}

// targetShares determines the entry size: the configured fixed count, or the
// whole number of shares the configured cash fraction buys at buyPrice.
func (e *Engine) targetShares(cash, buyPrice float64) int64 {
	if e.cfg.Sizing == domain.SizingFixedShares {
		return int64(e.cfg.SizingValue)
	}
	if buyPrice <= 0 {
		return 0
	}
	return int64(math.Floor(cash * e.cfg.SizingValue / buyPrice))
}
