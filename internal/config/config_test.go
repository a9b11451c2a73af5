package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtester.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
storage:
  data_dir: /data/bars
  sqlite_path: /data/results.db
logging:
  level: debug
  format: text
run:
  symbol: AAPL
  start: "2023-01-01"
  end: "2023-12-31"
  output_dir: /tmp/out
backtest:
  initial_capital: 25000
  sizing_mode: pct_equity
  sizing_value: 0.5
  commission_per_trade: 1.5
  slippage_fraction: 0.001
  execution_price: next_open
  risk_free_rate: 0.02
strategy:
  name: rsi-reversion
  period: 7
  oversold: 25
  overbought: 75
sweep:
  max_workers: 8
  short_windows: [10, 20]
  long_windows: [50, 100]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "/data/bars" || cfg.Storage.SQLitePath != "/data/results.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Run.Symbol != "AAPL" || cfg.Run.OutputDir != "/tmp/out" {
		t.Errorf("run = %+v", cfg.Run)
	}
	if cfg.Backtest.InitialCapital != 25000 || cfg.Backtest.SizingMode != "pct_equity" ||
		cfg.Backtest.SizingValue != 0.5 || cfg.Backtest.ExecutionPrice != "next_open" {
		t.Errorf("backtest = %+v", cfg.Backtest)
	}
	if cfg.Strategy.Name != "rsi-reversion" || cfg.Strategy.Period != 7 ||
		cfg.Strategy.Oversold != 25 || cfg.Strategy.Overbought != 75 {
		t.Errorf("strategy = %+v", cfg.Strategy)
	}
	if cfg.Sweep.MaxWorkers != 8 || len(cfg.Sweep.ShortWindows) != 2 || len(cfg.Sweep.LongWindows) != 2 {
		t.Errorf("sweep = %+v", cfg.Sweep)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
run:
  symbol: AAPL
  start: "2023-01-01"
  end: "2023-12-31"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Run.OutputDir != "out" {
		t.Errorf("output_dir default = %q, want %q", cfg.Run.OutputDir, "out")
	}
	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("initial_capital default = %v, want 10000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.SizingMode != string(domain.SizingFixedShares) || cfg.Backtest.SizingValue != 100 {
		t.Errorf("sizing defaults = %q/%v", cfg.Backtest.SizingMode, cfg.Backtest.SizingValue)
	}
	if cfg.Backtest.ExecutionPrice != string(domain.ExecClose) {
		t.Errorf("execution_price default = %q", cfg.Backtest.ExecutionPrice)
	}
	if cfg.Strategy.Name != "sma-cross" || cfg.Strategy.ShortWindow != 20 || cfg.Strategy.LongWindow != 50 {
		t.Errorf("strategy defaults = %+v", cfg.Strategy)
	}
	if cfg.Strategy.Period != 14 || cfg.Strategy.Oversold != 30 || cfg.Strategy.Overbought != 70 {
		t.Errorf("rsi defaults = %+v", cfg.Strategy)
	}
	if cfg.Strategy.Window != 20 || cfg.Strategy.NumStd != 2.0 {
		t.Errorf("bollinger defaults = %+v", cfg.Strategy)
	}
	if cfg.Sweep.MaxWorkers != 4 {
		t.Errorf("max_workers default = %d, want 4", cfg.Sweep.MaxWorkers)
	}

	// The defaulted backtest section must satisfy engine validation.
	if err := cfg.Backtest.Domain().Validate(); err != nil {
		t.Errorf("default backtest config invalid: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  data_dir: /from/file
run:
  symbol: AAPL
  start: "2023-01-01"
  end: "2023-12-31"
`)

	t.Setenv("DATA_DIR", "/from/env")
	t.Setenv("SQLITE_PATH", "/env/results.db")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("RUN_SYMBOL", "MSFT")
	t.Setenv("OUTPUT_DIR", "/env/out")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != "/from/env" {
		t.Errorf("DATA_DIR override = %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.SQLitePath != "/env/results.db" {
		t.Errorf("SQLITE_PATH override = %q", cfg.Storage.SQLitePath)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("LOG_LEVEL override = %q", cfg.Logging.Level)
	}
	if cfg.Run.Symbol != "MSFT" {
		t.Errorf("RUN_SYMBOL override = %q", cfg.Run.Symbol)
	}
	if cfg.Run.OutputDir != "/env/out" {
		t.Errorf("OUTPUT_DIR override = %q", cfg.Run.OutputDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "run: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestRunConfigRange(t *testing.T) {
	r := RunConfig{Start: "2023-01-01", End: "2023-06-30"}
	start, end, err := r.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if !start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	if _, _, err := (RunConfig{Start: "2023-06-30", End: "2023-01-01"}).Range(); err == nil {
		t.Error("expected error for end before start")
	}
	if _, _, err := (RunConfig{Start: "yesterday", End: "2023-01-01"}).Range(); err == nil {
		t.Error("expected error for unparseable start date")
	}
}

func TestBacktestConfigDomain(t *testing.T) {
	b := BacktestConfig{
		InitialCapital:     5000,
		SizingMode:         "pct_equity",
		SizingValue:        0.25,
		CommissionPerTrade: 2,
		SlippageFraction:   0.0005,
		ExecutionPrice:     "next_open",
		RiskFreeRate:       0.03,
	}
	d := b.Domain()
	if d.InitialCapital != 5000 || d.Sizing != domain.SizingPctEquity || d.SizingValue != 0.25 {
		t.Errorf("Domain() = %+v", d)
	}
	if d.ExecPrice != domain.ExecNextOpen || d.CommissionPerTrade != 2 ||
		d.SlippageFraction != 0.0005 || d.RiskFreeRate != 0.03 {
		t.Errorf("Domain() = %+v", d)
	}
}
