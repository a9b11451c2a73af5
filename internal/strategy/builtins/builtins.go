package builtins

import (
	"fmt"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
)

// Params carries the union of all builtin strategy parameters. Each strategy
// reads only the fields it needs.
type Params struct {
	ShortWindow int
	LongWindow  int
	Period      int
	Oversold    float64
	Overbought  float64
	Window      int
	NumStd      float64
}

// New constructs a builtin strategy by name from generic parameters.
func New(name string, p Params) (strategy.Strategy, error) {
	switch name {
	case "sma-cross":
		return NewSMACross(p.ShortWindow, p.LongWindow), nil
	case "rsi-reversion":
		return NewRSIReversion(p.Period, p.Oversold, p.Overbought), nil
	case "bollinger-reversion":
		return NewBollingerReversion(p.Window, p.NumStd), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// DefaultRegistry returns a Registry populated with the three builtins at
// their default parameters.
func DefaultRegistry() *strategy.Registry {
	r := strategy.NewRegistry()
	r.Register(NewSMACross(20, 50))
	r.Register(NewRSIReversion(14, 30, 70))
	r.Register(NewBollingerReversion(20, 2.0))
	return r
}
