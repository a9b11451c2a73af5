// Package indicator provides pure functions mapping a price sequence to
// derived numeric sequences: moving averages, Wilder's RSI, and Bollinger
// bands. Outputs are aligned 1:1 with the input; entries that lack enough
// history are marked invalid rather than backfilled with partial values.
package indicator

import "math"

// Value is one entry of an indicator series. Valid is false while the
// indicator's window has not yet filled; an invalid Value must never be
// treated as zero.
type Value struct {
	Float64 float64
	Valid   bool
}

func valid(f float64) Value { return Value{Float64: f, Valid: true} }

// SMA computes a simple moving average. The first window-1 entries are
// invalid: a partial-window average is never emitted.
func SMA(prices []float64, window int) []Value {
	out := make([]Value, len(prices))
	if window <= 0 || window > len(prices) {
		return out
	}
	var sum float64
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			out[i] = valid(sum / float64(window))
		}
	}
	return out
}

// EMA computes an exponential moving average with smoothing factor
// alpha = 2/(window+1), seeded with the first price. Every entry is valid.
func EMA(prices []float64, window int) []Value {
	out := make([]Value, len(prices))
	if len(prices) == 0 || window <= 0 {
		return out
	}
	alpha := 2.0 / (float64(window) + 1.0)
	ema := prices[0]
	out[0] = valid(ema)
	for i := 1; i < len(prices); i++ {
		ema = alpha*prices[i] + (1-alpha)*ema
		out[i] = valid(ema)
	}
	return out
}

// RSI computes Wilder's relative strength index. Per-bar gains and losses are
// smoothed exponentially with alpha = 1/period, seeded with the first value
// the same way as EMA. When the smoothed loss is zero the relative strength
// is undefined and RSI is reported as the neutral 50, never 100. Every entry
// is valid.
func RSI(prices []float64, period int) []Value {
	out := make([]Value, len(prices))
	if len(prices) == 0 || period <= 0 {
		return out
	}
	alpha := 1.0 / float64(period)

	// The first bar has no delta; its gain and loss are both zero, which
	// seeds the smoothing and yields the neutral value.
	var avgGain, avgLoss float64
	out[0] = valid(50)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss

		if avgLoss == 0 {
			out[i] = valid(50)
			continue
		}
		rs := avgGain / avgLoss
		out[i] = valid(100 - 100/(1+rs))
	}
	return out
}

// Bollinger computes Bollinger bands: mid is the simple moving average over
// window, and the band half-width is numStd sample standard deviations
// (divisor window-1) over the same trailing window. All three series share
// the SMA's invalid leading region.
func Bollinger(prices []float64, window int, numStd float64) (mid, upper, lower []Value) {
	mid = SMA(prices, window)
	upper = make([]Value, len(prices))
	lower = make([]Value, len(prices))
	if window < 2 {
		return mid, upper, lower
	}
	for i := range prices {
		if !mid[i].Valid {
			continue
		}
		m := mid[i].Float64
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := prices[j] - m
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(window-1))
		upper[i] = valid(m + numStd*sd)
		lower[i] = valid(m - numStd*sd)
	}
	return mid, upper, lower
}
