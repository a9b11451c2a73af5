package builtins

import (
	"testing"
	"time"

	"github.com/prabhavrao23/Trading-Strategy-Backtester/internal/domain"
)

// barsFromCloses builds a daily bar sequence with the given closes.
func barsFromCloses(closes []float64) []domain.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			AdjClose:  c,
			Volume:    1000,
		}
	}
	return bars
}

func assertSignals(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d signals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("signal[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSMACrossFlatMarket(t *testing.T) {
	// Constant closes make the short and long SMAs equal, and the strictly-
	// greater comparison never fires: every bar stays flat.
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 100.0
	}
	res, err := NewSMACross(2, 3).Signals(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	for i := range res.Signals {
		if res.Signals[i] != 0 || res.PositionChanges[i] != 0 {
			t.Errorf("bar %d: signal=%d change=%d, want flat", i, res.Signals[i], res.PositionChanges[i])
		}
	}
}

func TestSMACrossRoundTrip(t *testing.T) {
	closes := []float64{10, 10, 10, 12, 14, 16, 14, 12, 10, 10}
	res, err := NewSMACross(2, 3).Signals(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}

	assertSignals(t, res.Signals, []int{0, 0, 0, 1, 1, 1, 1, 0, 0, 0})
	assertSignals(t, res.PositionChanges, []int{0, 0, 0, 1, 0, 0, 0, -1, 0, 0})

	if len(res.Indicators) != 2 {
		t.Fatalf("got %d indicator columns, want 2", len(res.Indicators))
	}
	if res.Indicators[0].Name != "sma_short" || res.Indicators[1].Name != "sma_long" {
		t.Errorf("indicator columns = %q, %q", res.Indicators[0].Name, res.Indicators[1].Name)
	}
	// Signals before the long window fills are forced flat even if the
	// short SMA is already defined.
	if res.Indicators[0].Values[1].Valid && res.Signals[1] != 0 {
		t.Error("signal emitted before long window filled")
	}
}

func TestSMACrossInvalidWindows(t *testing.T) {
	bars := barsFromCloses([]float64{1, 2, 3})
	if _, err := NewSMACross(5, 5).Signals(bars); err == nil {
		t.Error("expected error for short window >= long window")
	}
	if _, err := NewSMACross(0, 5).Signals(bars); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestRSIReversionCarryForward(t *testing.T) {
	// period=2 (alpha=0.5), oversold=20, overbought=70.
	// RSI: 50, 0, 28.57, 25, 92.7 -> enter at t1, hold through the neutral
	// zone at t2/t3, exit at t4.
	closes := []float64{10, 8, 8.4, 8.3, 12}
	res, err := NewRSIReversion(2, 20, 70).Signals(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	assertSignals(t, res.Signals, []int{0, 1, 1, 1, 0})
	assertSignals(t, res.PositionChanges, []int{0, 1, 0, 0, -1})

	if len(res.Indicators) != 1 || res.Indicators[0].Name != "rsi" {
		t.Fatalf("unexpected indicator columns: %+v", res.Indicators)
	}
}

func TestRSIReversionInvalidThresholds(t *testing.T) {
	bars := barsFromCloses([]float64{1, 2, 3})
	if _, err := NewRSIReversion(14, 70, 30).Signals(bars); err == nil {
		t.Error("expected error for oversold >= overbought")
	}
	if _, err := NewRSIReversion(0, 30, 70).Signals(bars); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestBollingerReversionTransitions(t *testing.T) {
	// window=2, numStd=0.5.
	// t0: bands undefined -> 0. t1: close equals both bands -> hold 0.
	// t2: close 6 below lower 6.586 -> 1. t3: close equals mid -> hold 1.
	// t4: close 9 above mid 7.5 -> 0.
	closes := []float64{10, 10, 6, 6, 9}
	res, err := NewBollingerReversion(2, 0.5).Signals(barsFromCloses(closes))
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	assertSignals(t, res.Signals, []int{0, 0, 1, 1, 0})
	assertSignals(t, res.PositionChanges, []int{0, 0, 1, 0, -1})

	want := []string{"bb_mid", "bb_upper", "bb_lower"}
	if len(res.Indicators) != len(want) {
		t.Fatalf("got %d indicator columns, want %d", len(res.Indicators), len(want))
	}
	for i, name := range want {
		if res.Indicators[i].Name != name {
			t.Errorf("indicator column %d = %q, want %q", i, res.Indicators[i].Name, name)
		}
	}
}

func TestBollingerReversionInvalidParams(t *testing.T) {
	bars := barsFromCloses([]float64{1, 2, 3})
	if _, err := NewBollingerReversion(1, 2).Signals(bars); err == nil {
		t.Error("expected error for window below 2")
	}
	if _, err := NewBollingerReversion(20, 0).Signals(bars); err == nil {
		t.Error("expected error for non-positive std multiple")
	}
}

func TestNewByName(t *testing.T) {
	p := Params{ShortWindow: 10, LongWindow: 30, Period: 14, Oversold: 30, Overbought: 70, Window: 20, NumStd: 2}

	for _, name := range []string{"sma-cross", "rsi-reversion", "bollinger-reversion"} {
		s, err := New(name, p)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}

	if _, err := New("momentum", p); err == nil {
		t.Error("expected error for unknown strategy name")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	names := r.List()
	want := []string{"bollinger-reversion", "rsi-reversion", "sma-cross"}
	if len(names) != len(want) {
		t.Fatalf("List returned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
