// Package builtins provides the built-in signal generators that ship with
// the backtester: SMA crossover, RSI mean-reversion, and Bollinger
// mean-reversion.
package builtins

import (
	"fmt"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/indicator"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*SMACross)(nil)

// SMACross implements a simple moving average crossover strategy: long while
// the short-period SMA is strictly above the long-period SMA, flat otherwise.
// Bars before the long window has filled are forced flat.
type SMACross struct {
	shortWindow int
	longWindow  int
}

// NewSMACross creates an SMACross strategy with the specified short and long
// moving average windows.
func NewSMACross(short, long int) *SMACross {
	return &SMACross{
		shortWindow: short,
		longWindow:  long,
	}
}

// Name returns "sma-cross".
func (s *SMACross) Name() string {
	return "sma-cross"
}

// Params describes the configured windows, e.g. "short=20 long=50".
func (s *SMACross) Params() string {
	return fmt.Sprintf("short=%d long=%d", s.shortWindow, s.longWindow)
}

// Signals computes the crossover signal sequence for the full bar history.
func (s *SMACross) Signals(bars []domain.Bar) (*strategy.Result, error) {
	if s.shortWindow <= 0 || s.longWindow <= 0 {
		return nil, fmt.Errorf("sma-cross: windows must be positive, got short=%d long=%d", s.shortWindow, s.longWindow)
	}
	if s.shortWindow >= s.longWindow {
		return nil, fmt.Errorf("sma-cross: short window %d must be less than long window %d", s.shortWindow, s.longWindow)
	}

	prices := strategy.Closes(bars)
	smaShort := indicator.SMA(prices, s.shortWindow)
	smaLong := indicator.SMA(prices, s.longWindow)

	signals := make([]int, len(bars))
	for i := range bars {
		if smaShort[i].Valid && smaLong[i].Valid && smaShort[i].Float64 > smaLong[i].Float64 {
			signals[i] = 1
		}
	}

	return &strategy.Result{
		Signals:         signals,
		PositionChanges: strategy.DeriveChanges(signals),
		Indicators: []strategy.Column{
			{Name: "sma_short", Values: smaShort},
			{Name: "sma_long", Values: smaLong},
		},
	}, nil
}
