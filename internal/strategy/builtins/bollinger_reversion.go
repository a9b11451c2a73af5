package builtins

import (
	"fmt"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/indicator"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*BollingerReversion)(nil)

// BollingerReversion implements a Bollinger-band mean-reversion strategy: it
// goes long when the close drops below the lower band, goes flat when the
// close rises above the middle band, and otherwise holds the previous bar's
// signal. Bars where the bands are undefined are forced flat.
type BollingerReversion struct {
	window int
	numStd float64
}

// NewBollingerReversion creates a BollingerReversion strategy with the given
// band window and standard deviation multiple.
func NewBollingerReversion(window int, numStd float64) *BollingerReversion {
	return &BollingerReversion{
		window: window,
		numStd: numStd,
	}
}

// Name returns "bollinger-reversion".
func (s *BollingerReversion) Name() string {
	return "bollinger-reversion"
}

// Params describes the configured bands, e.g. "window=20 std=2".
func (s *BollingerReversion) Params() string {
	return fmt.Sprintf("window=%d std=%v", s.window, s.numStd)
}

// bollStep computes the signal for one bar from the close, the defined bands,
// and the previous bar's signal.
func bollStep(prev int, close, lower, mid float64) int {
	switch {
	case close < lower:
		return 1
	case close > mid:
		return 0
	default:
		return prev
	}
}

// Signals computes the band-reversion signal sequence for the full bar
// history.
func (s *BollingerReversion) Signals(bars []domain.Bar) (*strategy.Result, error) {
	if s.window < 2 {
		return nil, fmt.Errorf("bollinger-reversion: window must be at least 2, got %d", s.window)
	}
	if s.numStd <= 0 {
		return nil, fmt.Errorf("bollinger-reversion: std multiple must be positive, got %v", s.numStd)
	}

	prices := strategy.Closes(bars)
	mid, upper, lower := indicator.Bollinger(prices, s.window, s.numStd)

	signals := make([]int, len(bars))
	prev := 0
	for i := range bars {
		if !mid[i].Valid {
			prev = 0
		} else {
			prev = bollStep(prev, prices[i], lower[i].Float64, mid[i].Float64)
		}
		signals[i] = prev
	}

	return &strategy.Result{
		Signals:         signals,
		PositionChanges: strategy.DeriveChanges(signals),
		Indicators: []strategy.Column{
			{Name: "bb_mid", Values: mid},
			{Name: "bb_upper", Values: upper},
			{Name: "bb_lower", Values: lower},
		},
	}, nil
}
