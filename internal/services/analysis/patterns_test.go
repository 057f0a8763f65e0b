package analysis

import (
	"testing"

	"StockSight/internal/domain/models"
)

func TestPatternHammerAfterDecline(t *testing.T) {
	bars := mkBars(rampSeries(10, 120, 102))
	// Small body near the top of the range with a long lower wick.
	bars[9].Open = 103
	bars[9].Close = 104
	bars[9].High = 104.5
	bars[9].Low = 100

	out := NewPatternGenerator(DefaultPolicy()).Generate(bars, models.IndicatorTable{})
	sig := findSignal(t, out, "Candlestick")
	if sig.Category != models.CategoryDivergence {
		t.Fatalf("category = %s", sig.Category)
	}
	if sig.Polarity != models.PolarityBuy {
		t.Fatalf("hammer after a decline should be buy, got %s (%s)", sig.Polarity, sig.Description)
	}
	if sig.Strength != 30 {
		t.Fatalf("strength = %v, want 30", sig.Strength)
	}
}

func TestPatternBearishEngulfingAfterAdvance(t *testing.T) {
	bars := mkBars(rampSeries(10, 100, 118))
	bars[8].Open = 114
	bars[8].Close = 116
	bars[8].High = 116.5
	bars[8].Low = 113.5
	bars[9].Open = 117
	bars[9].Close = 113
	bars[9].High = 117.5
	bars[9].Low = 112.5

	out := NewPatternGenerator(DefaultPolicy()).Generate(bars, models.IndicatorTable{})
	sig := findSignal(t, out, "Candlestick")
	if sig.Polarity != models.PolaritySell {
		t.Fatalf("bearish engulfing after an advance should be sell, got %s (%s)", sig.Polarity, sig.Description)
	}
	if sig.Strength != 30 {
		t.Fatalf("strength = %v, want 30", sig.Strength)
	}
}

func TestPatternDojiIndecision(t *testing.T) {
	bars := mkBars(constSeries(10, 100))

	out := NewPatternGenerator(DefaultPolicy()).Generate(bars, models.IndicatorTable{})
	sig := findSignal(t, out, "Candlestick")
	if sig.Polarity != models.PolarityNeutral || sig.Strength != 0 {
		t.Fatalf("doji alone should be neutral strength 0, got %s %v", sig.Polarity, sig.Strength)
	}
}

func TestPatternNeedsTwoBars(t *testing.T) {
	bars := mkBars(constSeries(1, 100))
	out := NewPatternGenerator(DefaultPolicy()).Generate(bars, models.IndicatorTable{})
	if len(out) != 0 {
		t.Fatalf("expected no signals on a single bar, got %d", len(out))
	}
}
