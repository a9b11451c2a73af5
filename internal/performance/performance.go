// Package performance aggregates a simulation run's snapshots and trades
// into summary statistics. Everything here is a pure function of its inputs.
package performance

import (
	"math"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
)

// tradingDays is the annualization factor for per-bar returns.
const tradingDays = 252

// daysPerYear converts a calendar day span into years.
const daysPerYear = 365.25

// Summary holds the aggregate scalar metrics of one backtest run.
type Summary struct {
	TotalReturn      float64
	AnnualizedReturn float64
	MaxDrawdown      float64
	SharpeRatio      float64
	SortinoRatio     float64
	TradeCount       int
	WinRate          float64
	AverageWin       float64
	AverageLoss      float64
}

// Summarize computes the full metric set from a run's snapshot and trade
// sequences. riskFreeRate is annual and enters the Sharpe and Sortino
// numerators as riskFreeRate/252 per bar.
func Summarize(snapshots []domain.Snapshot, trades []domain.Trade, riskFreeRate float64) Summary {
	returns := make([]float64, len(snapshots))
	drawdowns := make([]float64, len(snapshots))
	for i, s := range snapshots {
		returns[i] = s.PeriodReturn
		drawdowns[i] = s.Drawdown
	}

	s := Summary{
		TotalReturn:      TotalReturn(snapshots),
		AnnualizedReturn: AnnualizedReturn(snapshots),
		MaxDrawdown:      MaxDrawdown(drawdowns),
		SharpeRatio:      SharpeRatio(returns, riskFreeRate),
		SortinoRatio:     SortinoRatio(returns, riskFreeRate),
	}
	s.TradeCount, s.WinRate, s.AverageWin, s.AverageLoss = TradeStats(trades)
	return s
}

// TotalReturn is the overall equity growth, final over first minus one.
// Zero with fewer than two snapshots.
func TotalReturn(snapshots []domain.Snapshot) float64 {
	if len(snapshots) < 2 {
		return 0
	}
	first := snapshots[0].Equity
	if first == 0 {
		return 0
	}
	return snapshots[len(snapshots)-1].Equity/first - 1
}

// AnnualizedReturn converts the overall equity growth to a yearly rate using
// the calendar day span between the first and last snapshot, with a minimum
// span of one day. Zero with fewer than two snapshots or non-positive
// starting equity.
func AnnualizedReturn(snapshots []domain.Snapshot) float64 {
	if len(snapshots) < 2 {
		return 0
	}
	first := snapshots[0]
	last := snapshots[len(snapshots)-1]
	if first.Equity <= 0 {
		return 0
	}
	days := int(last.Timestamp.Sub(first.Timestamp).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return math.Pow(last.Equity/first.Equity, daysPerYear/float64(days)) - 1
}

// MaxDrawdown is the minimum of the drawdown sequence, zero when empty.
func MaxDrawdown(drawdowns []float64) float64 {
	min := 0.0
	for _, d := range drawdowns {
		if d < min {
			min = d
		}
	}
	return min
}

// SharpeRatio is the annualized excess mean per-bar return over its sample
// standard deviation. Zero when the deviation is zero or undefined.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	sd := stddev(returns)
	if sd == 0 {
		return 0
	}
	return (mean(returns) - riskFreeRate/tradingDays) / sd * math.Sqrt(tradingDays)
}

// SortinoRatio shares the Sharpe numerator but divides by the sample
// standard deviation of the downside sequence, where non-negative returns
// are replaced by zero. Zero when that deviation is zero or undefined.
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	downside := make([]float64, len(returns))
	for i, r := range returns {
		if r < 0 {
			downside[i] = r
		}
	}
	sd := stddev(downside)
	if sd == 0 {
		return 0
	}
	return (mean(returns) - riskFreeRate/tradingDays) / sd * math.Sqrt(tradingDays)
}

// TradeStats pairs BUY and SELL trades positionally (i-th BUY with i-th
// SELL) and computes realized round-trip statistics. A trailing BUY with no
// matching SELL is excluded.
func TradeStats(trades []domain.Trade) (count int, winRate, avgWin, avgLoss float64) {
	var buys, sells []domain.Trade
	for _, t := range trades {
		switch t.Action {
		case domain.ActionBuy:
			buys = append(buys, t)
		case domain.ActionSell:
			sells = append(sells, t)
		}
	}

	n := len(buys)
	if len(sells) < n {
		n = len(sells)
	}
	if n == 0 {
		return 0, 0, 0, 0
	}

	var wins, losses int
	var winSum, lossSum float64
	for i := 0; i < n; i++ {
		pnl := (sells[i].Price - buys[i].Price) * float64(sells[i].Qty)
		if pnl > 0 {
			wins++
			winSum += pnl
		} else if pnl < 0 {
			losses++
			lossSum += pnl
		}
	}

	winRate = float64(wins) / float64(n)
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return n, winRate, avgWin, avgLoss
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (divisor n-1), zero for fewer than
// two observations.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
