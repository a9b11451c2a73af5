// Package domain defines the core data types shared across the backtester:
// price bars, executed trades, per-bar portfolio snapshots, and the run
// configuration.
package domain

import "time"

// Bar is one discrete time step of OHLCV price data, typically one trading
// day. Bars are consumed as an ordered sequence with strictly increasing
// timestamps; callers are responsible for upholding that precondition.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    int64
}

// NormalizeBars fills in AdjClose with Close for bars where the adjusted
// close is absent (zero). It returns the same slice for convenience.
func NormalizeBars(bars []Bar) []Bar {
	for i := range bars {
		if bars[i].AdjClose == 0 {
			bars[i].AdjClose = bars[i].Close
		}
	}
	return bars
}

// TradeAction is the side of an executed order.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Trade records a single executed order. Trades are append-only and ordered
// by timestamp; one is emitted only when the engine actually fills an order.
type Trade struct {
	Timestamp time.Time
	Action    TradeAction
	Qty       int64
	Price     float64 // execution price after slippage adjustment
	CashAfter float64 // cash balance immediately after the fill
}

// Snapshot is the end-of-bar portfolio state, emitted in lock-step with the
// simulation loop: one snapshot per input bar.
type Snapshot struct {
	Timestamp    time.Time
	Cash         float64
	Shares       int64
	Holdings     float64 // Shares * bar close
	Equity       float64 // Cash + Holdings
	PeriodReturn float64 // Equity[t]/Equity[t-1] - 1, 0 for the first bar
	Drawdown     float64 // Equity[t]/runningMax(Equity) - 1, always <= 0
}
