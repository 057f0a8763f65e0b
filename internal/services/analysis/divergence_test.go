package analysis

import (
	"testing"

	"StockSight/internal/domain/models"
)

// twoPeakCloses builds 40 closes with prominent highs at indices 10 and 30.
func twoPeakCloses(firstPeak, secondPeak float64) []float64 {
	closes := make([]float64, 40)
	for i := 0; i <= 10; i++ {
		closes[i] = 100 + (firstPeak-100)*float64(i)/10
	}
	for i := 11; i <= 20; i++ {
		closes[i] = firstPeak + (105-firstPeak)*float64(i-10)/10
	}
	for i := 21; i <= 30; i++ {
		closes[i] = 105 + (secondPeak-105)*float64(i-20)/10
	}
	for i := 31; i < 40; i++ {
		closes[i] = secondPeak + (112-secondPeak)*float64(i-30)/9
	}
	return closes
}

func TestDetectBearishDivergence(t *testing.T) {
	// Price makes a higher high (120 then 125) while the oscillator makes a
	// lower high (70 then 60).
	bars := mkBars(twoPeakCloses(120, 125))
	rsi := constSeries(40, 40)
	rsi[10] = 70
	rsi[30] = 60
	table := models.IndicatorTable{
		models.SeriesRSI: rsi,
		models.SeriesATR: constSeries(40, 2),
	}

	out := NewDetector(DefaultPolicy()).Detect(bars, table)
	if len(out) != 1 {
		t.Fatalf("expected exactly one divergence signal, got %d", len(out))
	}
	sig := out[0]
	if sig.Name != "RSI Divergence" {
		t.Fatalf("name = %q", sig.Name)
	}
	if sig.Polarity != models.PolaritySell {
		t.Fatalf("polarity = %s", sig.Polarity)
	}
	if sig.Strength <= 0 {
		t.Fatalf("strength = %v, want > 0", sig.Strength)
	}
	if sig.Category != models.CategoryDivergence {
		t.Fatalf("category = %s", sig.Category)
	}
}

func TestDetectBullishDivergence(t *testing.T) {
	// Mirror shape: lower price lows with a rising oscillator.
	peaks := twoPeakCloses(120, 125)
	closes := make([]float64, len(peaks))
	for i, c := range peaks {
		closes[i] = 220 - c // troughs at indices 10 and 30, second one lower
	}
	bars := mkBars(closes)
	rsi := constSeries(40, 60)
	rsi[10] = 25
	rsi[30] = 35
	table := models.IndicatorTable{
		models.SeriesRSI: rsi,
		models.SeriesATR: constSeries(40, 2),
	}

	out := NewDetector(DefaultPolicy()).Detect(bars, table)
	if len(out) != 1 {
		t.Fatalf("expected exactly one divergence signal, got %d", len(out))
	}
	if out[0].Polarity != models.PolarityBuy {
		t.Fatalf("polarity = %s", out[0].Polarity)
	}
}

func TestDetectNoDivergenceWhenConfirming(t *testing.T) {
	// Higher price high with a higher oscillator high is confirmation.
	bars := mkBars(twoPeakCloses(120, 125))
	rsi := constSeries(40, 40)
	rsi[10] = 60
	rsi[30] = 72
	table := models.IndicatorTable{
		models.SeriesRSI: rsi,
		models.SeriesATR: constSeries(40, 2),
	}

	out := NewDetector(DefaultPolicy()).Detect(bars, table)
	if len(out) != 0 {
		t.Fatalf("expected no signals, got %d", len(out))
	}
}

func TestDetectSkipsWarmingUpOscillator(t *testing.T) {
	bars := mkBars(twoPeakCloses(120, 125))
	table := models.IndicatorTable{
		// 20 warm-up NaNs leave fewer defined values than the 40-bar window.
		models.SeriesRSI: warmupSeries(40, 20, 50),
		models.SeriesATR: constSeries(40, 2),
	}

	out := NewDetector(DefaultPolicy()).Detect(bars, table)
	if len(out) != 0 {
		t.Fatalf("expected no signals on short oscillator history, got %d", len(out))
	}
}

func TestDetectTooFewBars(t *testing.T) {
	bars := mkBars(rampSeries(4, 100, 103))
	out := NewDetector(DefaultPolicy()).Detect(bars, models.IndicatorTable{})
	if len(out) != 0 {
		t.Fatalf("expected no signals, got %d", len(out))
	}
}
