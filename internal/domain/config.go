package domain

import "fmt"

// SizingMode selects how the engine determines the share count on entry.
type SizingMode string

const (
	// SizingFixedShares buys a fixed, configured number of shares.
	SizingFixedShares SizingMode = "fixed_shares"
	// SizingPctEquity spends a configured fraction of available cash.
	SizingPctEquity SizingMode = "pct_equity"
)

// ExecPriceMode selects which price an order executes at.
type ExecPriceMode string

const (
	// ExecClose fills at the same bar's close.
	ExecClose ExecPriceMode = "close"
	// ExecNextOpen fills at the next bar's open; the final bar falls back to
	// its own close.
	ExecNextOpen ExecPriceMode = "next_open"
)

// Config holds the immutable parameters for one backtest run. It is supplied
// at construction and never mutated during a run.
type Config struct {
	InitialCapital     float64
	Sizing             SizingMode
	SizingValue        float64 // share count for fixed_shares, fraction (0..1] for pct_equity
	CommissionPerTrade float64
	SlippageFraction   float64
	ExecPrice          ExecPriceMode
	RiskFreeRate       float64 // annual, used only by performance aggregation
}

// DefaultConfig returns the baseline run configuration: 10000 starting
// capital, 100 fixed shares per entry, no commission or slippage, fills at
// the bar close.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 10000,
		Sizing:         SizingFixedShares,
		SizingValue:    100,
		ExecPrice:      ExecClose,
	}
}

// Validate reports whether the configuration is internally consistent.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %v", c.InitialCapital)
	}
	switch c.Sizing {
	case SizingFixedShares, SizingPctEquity:
	default:
		return fmt.Errorf("unknown sizing mode %q", c.Sizing)
	}
	if c.SizingValue <= 0 {
		return fmt.Errorf("sizing value must be positive, got %v", c.SizingValue)
	}
	if c.Sizing == SizingPctEquity && c.SizingValue > 1 {
		return fmt.Errorf("pct_equity sizing value must be in (0, 1], got %v", c.SizingValue)
	}
	if c.CommissionPerTrade < 0 {
		return fmt.Errorf("commission must be non-negative, got %v", c.CommissionPerTrade)
	}
	if c.SlippageFraction < 0 {
		return fmt.Errorf("slippage must be non-negative, got %v", c.SlippageFraction)
	}
	switch c.ExecPrice {
	case ExecClose, ExecNextOpen:
	default:
		return fmt.Errorf("unknown execution price mode %q", c.ExecPrice)
	}
	return nil
}
