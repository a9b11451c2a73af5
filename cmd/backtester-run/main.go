// cmd/backtester-run executes one backtest end to end: it reads bars from
// the Parquet store, generates signals with the configured strategy, runs
// the simulation, writes the signals/portfolio/trades CSV tables, and
// persists the summary to the result store.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/backtest"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/config"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/performance"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/report"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/store"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy"
	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/strategy/builtins"
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
		logger.Error("backtest failed", "error", err)
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

	strat, err := builtins.New(cfg.Strategy.Name, builtins.Params{
		ShortWindow: cfg.Strategy.ShortWindow,
		LongWindow:  cfg.Strategy.LongWindow,
		Period:      cfg.Strategy.Period,
		Oversold:    cfg.Strategy.Oversold,
		Overbought:  cfg.Strategy.Overbought,
		Window:      cfg.Strategy.Window,
		NumStd:      cfg.Strategy.NumStd,
	})
	if err != nil {
		return err
	}

	sig, err := strat.Signals(bars)
	if err != nil {
		return fmt.Errorf("generating signals: %w", err)
	}

	runCfg := cfg.Backtest.Domain()
	res, err := backtest.New(runCfg).Run(bars, sig)
	if err != nil {
		return err
	}

	summary := performance.Summarize(res.Snapshots, res.Trades, runCfg.RiskFreeRate)

	if err := writeTables(cfg.Run.OutputDir, bars, sig, res); err != nil {
		return err
	}

	record := &store.RunRecord{
		ID:        uuid.NewString(),
		Strategy:  strat.Name(),
		Params:    describe(strat),
		Symbol:    cfg.Run.Symbol,
		FirstBar:  bars[0].Timestamp,
		LastBar:   bars[len(bars)-1].Timestamp,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
		Trades:    res.Trades,
	}
	if cfg.Storage.SQLitePath != "" {
		results, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer results.Close()
		if err := results.SaveRun(ctx, record); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
	}

	logger.Info("backtest complete",
		"run_id", record.ID,
		"strategy", record.Strategy,
		"params", record.Params,
		"symbol", record.Symbol,
		"bars", len(bars),
		"total_return", summary.TotalReturn,
		"annualized_return", summary.AnnualizedReturn,
		"max_drawdown", summary.MaxDrawdown,
		"sharpe", summary.SharpeRatio,
		"sortino", summary.SortinoRatio,
		"trades", summary.TradeCount,
		"win_rate", summary.WinRate,
	)
	return nil
}

func writeTables(dir string, bars []domain.Bar, sig *strategy.Result, res *backtest.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tables := map[string]*report.Table{
		"signals.csv":   report.Signals(bars, sig),
		"portfolio.csv": report.Portfolio(res.Snapshots),
		"trades.csv":    report.Trades(res.Trades),
	}
	for name, t := range tables {
		if err := t.WriteFile(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

func describe(s any) string {
	if d, ok := s.(interface{ Params() string }); ok {
		return d.Params()
	}
	return ""
}
