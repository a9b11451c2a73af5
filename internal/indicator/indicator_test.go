package indicator

import (
	"math"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMAWindowGating(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got := SMA(prices, 3)

	// Entries before the window fills are invalid, never partial averages.
	for i := 0; i < 2; i++ {
		if got[i].Valid {
			t.Errorf("SMA[%d] valid before window filled: %+v", i, got[i])
		}
	}
	// The first defined value appears exactly at the window-fill index.
	want := []float64{2, 3, 4}
	for i, w := range want {
		v := got[i+2]
		if !v.Valid {
			t.Fatalf("SMA[%d] invalid, want %v", i+2, w)
		}
		if !approx(v.Float64, w) {
			t.Errorf("SMA[%d] = %v, want %v", i+2, v.Float64, w)
		}
	}
}

func TestSMAWindowLongerThanHistory(t *testing.T) {
	got := SMA([]float64{1, 2, 3}, 10)
	for i, v := range got {
		if v.Valid {
			t.Errorf("SMA[%d] valid with window longer than history", i)
		}
	}
}

func TestEMASeedAndRecursion(t *testing.T) {
	// window=3 gives alpha=0.5: 2, 0.5*4+0.5*2=3, 0.5*6+0.5*3=4.5.
	got := EMA([]float64{2, 4, 6}, 3)
	want := []float64{2, 3, 4.5}
	for i, w := range want {
		if !got[i].Valid {
			t.Fatalf("EMA[%d] invalid", i)
		}
		if !approx(got[i].Float64, w) {
			t.Errorf("EMA[%d] = %v, want %v", i, got[i].Float64, w)
		}
	}
}

func TestRSINeutralOnMonotonicRise(t *testing.T) {
	// A strictly rising series never records a loss, so the smoothed loss
	// stays zero and RSI reports the neutral 50, never 100.
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	got := RSI(prices, 14)
	for i, v := range got {
		if !v.Valid {
			t.Fatalf("RSI[%d] invalid", i)
		}
		if v.Float64 != 50 {
			t.Errorf("RSI[%d] = %v, want exactly 50", i, v.Float64)
		}
	}
}

func TestRSISmoothing(t *testing.T) {
	// period=2 gives alpha=0.5. Deltas: -1, +0.5.
	// t1: avgGain=0, avgLoss=0.5 -> RS=0 -> RSI=0.
	// t2: avgGain=0.25, avgLoss=0.25 -> RS=1 -> RSI=50.
	got := RSI([]float64{10, 9, 9.5}, 2)

	if !approx(got[1].Float64, 0) {
		t.Errorf("RSI[1] = %v, want 0", got[1].Float64)
	}
	if !approx(got[2].Float64, 50) {
		t.Errorf("RSI[2] = %v, want 50", got[2].Float64)
	}
	// First bar has no delta and seeds at neutral.
	if got[0].Float64 != 50 {
		t.Errorf("RSI[0] = %v, want 50", got[0].Float64)
	}
}

func TestBollingerBands(t *testing.T) {
	mid, upper, lower := Bollinger([]float64{1, 2, 3, 4}, 3, 2)

	for i := 0; i < 2; i++ {
		if mid[i].Valid || upper[i].Valid || lower[i].Valid {
			t.Errorf("bands[%d] valid before window filled", i)
		}
	}

	// Window [1,2,3]: mean 2, sample stddev 1 -> bands 2 +/- 2.
	if !approx(mid[2].Float64, 2) || !approx(upper[2].Float64, 4) || !approx(lower[2].Float64, 0) {
		t.Errorf("bands[2] = (%v, %v, %v), want (2, 4, 0)",
			mid[2].Float64, upper[2].Float64, lower[2].Float64)
	}
	// Window [2,3,4]: mean 3, sample stddev 1 -> bands 3 +/- 2.
	if !approx(mid[3].Float64, 3) || !approx(upper[3].Float64, 5) || !approx(lower[3].Float64, 1) {
		t.Errorf("bands[3] = (%v, %v, %v), want (3, 5, 1)",
			mid[3].Float64, upper[3].Float64, lower[3].Float64)
	}
}
