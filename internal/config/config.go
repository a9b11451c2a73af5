// Package config loads the backtester's YAML run configuration and applies
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the backtester.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Logging  Logging        `yaml:"logging"`
	Run      RunConfig      `yaml:"run"`
	Backtest BacktestConfig `yaml:"backtest"`
	Strategy StrategyConfig `yaml:"strategy"`
	Sweep    SweepConfig    `yaml:"sweep"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RunConfig selects the dataset and output location for a run.
type RunConfig struct {
	Symbol    string `yaml:"symbol"`
	Start     string `yaml:"start"` // YYYY-MM-DD
	End       string `yaml:"end"`   // YYYY-MM-DD
	OutputDir string `yaml:"output_dir"`
}

// Range parses the configured start and end dates (UTC, whole days).
func (r RunConfig) Range() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.start: %w", err)
	}
	end, err = time.Parse("2006-01-02", r.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("run.end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("run.end %s is before run.start %s", r.End, r.Start)
	}
	return start, end, nil
}

// BacktestConfig holds the simulation parameters.
type BacktestConfig struct {
	InitialCapital     float64 `yaml:"initial_capital"`
	SizingMode         string  `yaml:"sizing_mode"` // fixed_shares or pct_equity
	SizingValue        float64 `yaml:"sizing_value"`
	CommissionPerTrade float64 `yaml:"commission_per_trade"`
	SlippageFraction   float64 `yaml:"slippage_fraction"`
	ExecutionPrice     string  `yaml:"execution_price"` // close or next_open
	RiskFreeRate       float64 `yaml:"risk_free_rate"`
}

// Domain converts the YAML parameters into the engine's run configuration.
func (b BacktestConfig) Domain() domain.Config {
	return domain.Config{
		InitialCapital:     b.InitialCapital,
		Sizing:             domain.SizingMode(b.SizingMode),
		SizingValue:        b.SizingValue,
		CommissionPerTrade: b.CommissionPerTrade,
		SlippageFraction:   b.SlippageFraction,
		ExecPrice:          domain.ExecPriceMode(b.ExecutionPrice),
		RiskFreeRate:       b.RiskFreeRate,
	}
}

// StrategyConfig selects a builtin strategy and its parameters. Only the
// fields relevant to the named strategy are consulted.
type StrategyConfig struct {
	Name        string  `yaml:"name"`
	ShortWindow int     `yaml:"short_window"`
	LongWindow  int     `yaml:"long_window"`
	Period      int     `yaml:"period"`
	Oversold    float64 `yaml:"oversold"`
	Overbought  float64 `yaml:"overbought"`
	Window      int     `yaml:"window"`
	NumStd      float64 `yaml:"num_std"`
}

// SweepConfig defines a parameter grid for one strategy family and the
// worker count used to run it.
type SweepConfig struct {
	MaxWorkers   int       `yaml:"max_workers"`
	ShortWindows []int     `yaml:"short_windows"`
	LongWindows  []int     `yaml:"long_windows"`
	Periods      []int     `yaml:"periods"`
	Oversolds    []float64 `yaml:"oversolds"`
	Overboughts  []float64 `yaml:"overboughts"`
	Windows      []int     `yaml:"windows"`
	NumStds      []float64 `yaml:"num_stds"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, fills in defaults, and applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyDefaults fills unset fields with the baseline values.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Run.OutputDir == "" {
		c.Run.OutputDir = "out"
	}

	if c.Backtest.InitialCapital == 0 {
		c.Backtest.InitialCapital = 10000
	}
	if c.Backtest.SizingMode == "" {
		c.Backtest.SizingMode = string(domain.SizingFixedShares)
	}
	if c.Backtest.SizingValue == 0 {
		c.Backtest.SizingValue = 100
	}
	if c.Backtest.ExecutionPrice == "" {
		c.Backtest.ExecutionPrice = string(domain.ExecClose)
	}

	if c.Strategy.Name == "" {
		c.Strategy.Name = "sma-cross"
	}
	if c.Strategy.ShortWindow == 0 {
		c.Strategy.ShortWindow = 20
	}
	if c.Strategy.LongWindow == 0 {
		c.Strategy.LongWindow = 50
	}
	if c.Strategy.Period == 0 {
		c.Strategy.Period = 14
	}
	if c.Strategy.Oversold == 0 {
		c.Strategy.Oversold = 30
	}
	if c.Strategy.Overbought == 0 {
		c.Strategy.Overbought = 70
	}
	if c.Strategy.Window == 0 {
		c.Strategy.Window = 20
	}
	if c.Strategy.NumStd == 0 {
		c.Strategy.NumStd = 2.0
	}

	if c.Sweep.MaxWorkers == 0 {
		c.Sweep.MaxWorkers = 4
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RUN_SYMBOL"); v != "" {
		cfg.Run.Symbol = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Run.OutputDir = v
	}
}
