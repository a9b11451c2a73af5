// cmd/backtester-sweep runs the configured strategy family across its
// parameter grid, in parallel over a bounded worker pool, and logs the
// ranked results. Each surviving combination is persisted to the result
// store.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/config"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/store"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/sweep"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/util"
)

func main() {
	cfgPath := "config/backtester.yaml"
	if p := os.Getenv("BACKTESTER_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start, end, err := cfg.Run.Range()
	if err != nil {
		return err
	}

	bars, err := store.NewParquetStore(cfg.Storage.DataDir).ReadBars(ctx, cfg.Run.Symbol, start, end)
	if err != nil {
		return fmt.Errorf("reading bars for %s: %w", cfg.Run.Symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars stored for %s in [%s, %s]", cfg.Run.Symbol, cfg.Run.Start, cfg.Run.End)
	}
	domain.NormalizeBars(bars)

	strategies, err := sweep.ExpandGrid(cfg.Strategy.Name, cfg.Sweep)
	if err != nil {
		return err
	}
	logger.Info("starting sweep",
		"strategy", cfg.Strategy.Name,
		"combinations", len(strategies),
		"workers", cfg.Sweep.MaxWorkers,
		"symbol", cfg.Run.Symbol,
		"bars", len(bars),
	)

	runner := sweep.NewRunner(cfg.Backtest.Domain(), cfg.Sweep.MaxWorkers, logger)
	outcomes := runner.Run(ctx, bars, strategies)

	var results *store.SQLiteStore
	if cfg.Storage.SQLitePath != "" {
		results, err = store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer results.Close()
	}

	for rank, o := range outcomes {
		if o.Err != nil {
			logger.Warn("combination failed", "strategy", o.Strategy, "params", o.Params, "error", o.Err)
			continue
		}
		logger.Info("sweep result",
			"rank", rank+1,
			"strategy", o.Strategy,
			"params", o.Params,
			"total_return", o.Summary.TotalReturn,
			"max_drawdown", o.Summary.MaxDrawdown,
			"sharpe", o.Summary.SharpeRatio,
			"trades", o.Summary.TradeCount,
		)
		if results != nil {
			record := &store.RunRecord{
				ID:        uuid.NewString(),
				Strategy:  o.Strategy,
				Params:    o.Params,
				Symbol:    cfg.Run.Symbol,
				FirstBar:  bars[0].Timestamp,
				LastBar:   bars[len(bars)-1].Timestamp,
				CreatedAt: time.Now().UTC(),
				Summary:   o.Summary,
			}
			if err := results.SaveRun(ctx, record); err != nil {
				return fmt.Errorf("saving sweep result %s: %w", o.Params, err)
			}
		}
	}
	return nil
}
