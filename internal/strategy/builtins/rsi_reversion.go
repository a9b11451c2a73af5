package builtins

import (
	"fmt"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/indicator"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*RSIReversion)(nil)

// RSIReversion implements an RSI mean-reversion strategy: it goes long the
// first bar RSI drops below the oversold threshold, goes flat the first bar
// RSI rises above the overbought threshold, and otherwise holds the previous
// bar's signal.
type RSIReversion struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSIReversion creates an RSIReversion strategy with the given RSI period
// and oversold/overbought thresholds.
func NewRSIReversion(period int, oversold, overbought float64) *RSIReversion {
	return &RSIReversion{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
	}
}

// Name returns "rsi-reversion".
func (s *RSIReversion) Name() string {
	return "rsi-reversion"
}

// Params describes the configured thresholds, e.g. "period=14 oversold=30 overbought=70".
func (s *RSIReversion) Params() string {
	return fmt.Sprintf("period=%d oversold=%v overbought=%v", s.period, s.oversold, s.overbought)
}

// rsiStep computes the signal for one bar from the RSI value and the previous
// bar's signal. Threading the previous signal through explicitly keeps the
// carry-forward logic a pure function.
func (s *RSIReversion) rsiStep(prev int, rsi float64) int {
	switch {
	case rsi < s.oversold:
		return 1
	case rsi > s.overbought:
		return 0
	default:
		return prev
	}
}

// Signals computes the mean-reversion signal sequence for the full bar
// history.
func (s *RSIReversion) Signals(bars []domain.Bar) (*strategy.Result, error) {
	if s.period <= 0 {
		return nil, fmt.Errorf("rsi-reversion: period must be positive, got %d", s.period)
	}
	if s.oversold >= s.overbought {
		return nil, fmt.Errorf("rsi-reversion: oversold %v must be less than overbought %v", s.oversold, s.overbought)
	}

	prices := strategy.Closes(bars)
	rsi := indicator.RSI(prices, s.period)

	signals := make([]int, len(bars))
	prev := 0
	for i := range bars {
		if !rsi[i].Valid {
			prev = 0
		} else {
			prev = s.rsiStep(prev, rsi[i].Float64)
		}
		signals[i] = prev
	}

	return &strategy.Result{
		Signals:         signals,
		PositionChanges: strategy.DeriveChanges(signals),
		Indicators: []strategy.Column{
			{Name: "rsi", Values: rsi},
		},
	}, nil
}
