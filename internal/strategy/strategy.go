// Package strategy defines the Strategy interface for signal generators and
// provides a Registry for managing multiple strategy implementations.
package strategy

import (
	"sort"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/indicator"
)

// Column is one named indicator series a strategy produced alongside its
// signals, aligned 1:1 with the input bars. Columns appear in the signals
// table in the order the strategy emits them.
type Column struct {
	Name   string
	Values []indicator.Value
}

// Result holds the per-bar output of one signal-generation pass. All slices
// are aligned with the input bar sequence and immutable once returned.
type Result struct {
	// Signals holds the desired position state per bar: 1 long, 0 flat.
	Signals []int
	// PositionChanges holds Signals[t] - Signals[t-1], with 0 at t=0.
	PositionChanges []int
	// Indicators holds the indicator columns the strategy computed.
	Indicators []Column
}

// Strategy is the interface all signal generators implement. Signals must be
// causal: computing the output for bar t may not reference any bar after t.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Signals produces the per-bar signal sequence, position changes, and
	// indicator columns for the full bar history.
	Signals(bars []domain.Bar) (*Result, error)
}

// DeriveChanges computes the bar-to-bar position change sequence from a
// signal sequence: +1 enter, -1 exit, 0 hold. The first entry is 0 by
// convention.
func DeriveChanges(signals []int) []int {
	changes := make([]int, len(signals))
	for i := 1; i < len(signals); i++ {
		changes[i] = signals[i] - signals[i-1]
	}
	return changes
}

// Closes extracts the close price sequence from a bar history.
func Closes(bars []domain.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i := range bars {
		prices[i] = bars[i].Close
	}
	return prices
}

// Registry holds a named collection of strategies for lookup and enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates whether
// the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
