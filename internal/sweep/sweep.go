// Package sweep runs one strategy family across a parameter grid. Each
// combination is an independent backtest over the same immutable bar
// sequence, so combinations run concurrently on a bounded worker pool with
// no shared mutable state beyond result collection.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/backtest"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/config"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/performance"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy/builtins"
)

// Outcome is the result of one parameter combination.
type Outcome struct {
	Strategy string
	Params   string
	Summary  performance.Summary
	Err      error
}

// Runner executes a set of strategies over one bar sequence and run
// configuration.
type Runner struct {
	cfg     domain.Config
	workers int
	logger  *slog.Logger
}

// NewRunner creates a Runner with the given run configuration and worker
// count. A worker count below 1 is treated as 1.
func NewRunner(cfg domain.Config, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, workers: workers, logger: logger}
}

// paramsDescriber is implemented by strategies that can describe their
// configured parameters.
type paramsDescriber interface {
	Params() string
}

// Run backtests every strategy against bars and returns one outcome per
// strategy, sorted by total return descending. Combinations that fail carry
// their error in the outcome instead of aborting the sweep. Run stops
// dispatching new combinations once ctx is cancelled.
func (r *Runner) Run(ctx context.Context, bars []domain.Bar, strategies []strategy.Strategy) []Outcome {
	outcomes := make([]Outcome, len(strategies))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.runOne(bars, strategies[i])
			}
		}()
	}

dispatch:
	for i := range strategies {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(strategies); j++ {
				outcomes[j] = Outcome{
					Strategy: strategies[j].Name(),
					Params:   describeParams(strategies[j]),
					Err:      err,
				}
			}
			break dispatch
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Err != nil || outcomes[j].Err != nil {
			return outcomes[i].Err == nil && outcomes[j].Err != nil
		}
		if outcomes[i].Summary.TotalReturn != outcomes[j].Summary.TotalReturn {
			return outcomes[i].Summary.TotalReturn > outcomes[j].Summary.TotalReturn
		}
		return outcomes[i].Params < outcomes[j].Params
	})
	return outcomes
}

// runOne executes a single strategy end to end: signals, simulation,
// aggregation.
func (r *Runner) runOne(bars []domain.Bar, s strategy.Strategy) Outcome {
	out := Outcome{Strategy: s.Name(), Params: describeParams(s)}

	sig, err := s.Signals(bars)
	if err != nil {
		out.Err = fmt.Errorf("signals: %w", err)
		return out
	}

	res, err := backtest.New(r.cfg).Run(bars, sig)
	if err != nil {
		out.Err = fmt.Errorf("simulate: %w", err)
		return out
	}

	out.Summary = performance.Summarize(res.Snapshots, res.Trades, r.cfg.RiskFreeRate)
	r.logger.Debug("sweep combination finished",
		"strategy", out.Strategy,
		"params", out.Params,
		"total_return", out.Summary.TotalReturn,
		"trades", out.Summary.TradeCount,
	)
	return out
}

func describeParams(s strategy.Strategy) string {
	if d, ok := s.(paramsDescriber); ok {
		return d.Params()
	}
	return ""
}

// ExpandGrid builds the strategy list for a sweep of the named builtin
// family. Combinations that cannot form a valid strategy (short window not
// below long, oversold not below overbought) are skipped.
func ExpandGrid(name string, grid config.SweepConfig) ([]strategy.Strategy, error) {
	var strategies []strategy.Strategy
	switch name {
	case "sma-cross":
		for _, short := range grid.ShortWindows {
			for _, long := range grid.LongWindows {
				if short >= long {
					continue
				}
				strategies = append(strategies, builtins.NewSMACross(short, long))
			}
		}
	case "rsi-reversion":
		for _, period := range grid.Periods {
			for _, oversold := range grid.Oversolds {
				for _, overbought := range grid.Overboughts {
					if oversold >= overbought {
						continue
					}
					strategies = append(strategies, builtins.NewRSIReversion(period, oversold, overbought))
				}
			}
		}
	case "bollinger-reversion":
		for _, window := range grid.Windows {
			for _, numStd := range grid.NumStds {
				strategies = append(strategies, builtins.NewBollingerReversion(window, numStd))
			}
		}
	default:
		return nil, fmt.Errorf("sweep: unknown strategy %q", name)
	}

	if len(strategies) == 0 {
		return nil, fmt.Errorf("sweep: grid for %q expands to no valid combinations", name)
	}
	return strategies, nil
}
