package analysis

import (
	"math"
	"testing"
	"time"

	"StockSight/internal/domain/models"
)

func mkBars(closes []float64) []models.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func constSeries(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func rampSeries(n int, from, to float64) []float64 {
	s := make([]float64, n)
	if n == 1 {
		s[0] = to
		return s
	}
	for i := range s {
		s[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return s
}

func warmupSeries(n, warm int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		if i < warm {
			s[i] = math.NaN()
		} else {
			s[i] = v
		}
	}
	return s
}

func TestClassifyTrendingUp(t *testing.T) {
	bars := mkBars(rampSeries(30, 100, 130))
	table := models.IndicatorTable{
		models.SeriesADX: constSeries(30, 40), // 40/50 = 0.8 > 0.6
		models.SeriesATR: constSeries(30, 2),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeTrending {
		t.Fatalf("expected trending, got %s", r.Label)
	}
	if r.Direction != "up" {
		t.Fatalf("expected up direction, got %q", r.Direction)
	}
	want := (0.8 - 0.6) / (1 - 0.6)
	if math.Abs(r.Confidence-want) > 1e-9 {
		t.Fatalf("confidence = %v, want %v", r.Confidence, want)
	}
	if r.String() != "trending_up" {
		t.Fatalf("String() = %q", r.String())
	}
}

func TestClassifyTrendingDown(t *testing.T) {
	bars := mkBars(rampSeries(30, 130, 100))
	table := models.IndicatorTable{
		models.SeriesADX: constSeries(30, 45),
		models.SeriesATR: constSeries(30, 2),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeTrending || r.Direction != "down" {
		t.Fatalf("expected trending_down, got %s", r.String())
	}
}

func TestClassifyRanging(t *testing.T) {
	bars := mkBars(constSeries(30, 100))
	table := models.IndicatorTable{
		models.SeriesADX: constSeries(30, 15), // 0.3 < 0.6
		models.SeriesATR: constSeries(30, 1),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeRanging {
		t.Fatalf("expected ranging, got %s", r.Label)
	}
	want := (0.6 - 0.3) / 0.6
	if math.Abs(r.Confidence-want) > 1e-9 {
		t.Fatalf("confidence = %v, want %v", r.Confidence, want)
	}
	if r.String() != "ranging" {
		t.Fatalf("String() = %q", r.String())
	}
}

func TestClassifyExactlyAtThresholdIsRanging(t *testing.T) {
	bars := mkBars(rampSeries(30, 100, 130))
	table := models.IndicatorTable{
		models.SeriesADX: constSeries(30, 30), // 30/50 = 0.6 exactly
		models.SeriesATR: constSeries(30, 2),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeRanging {
		t.Fatalf("threshold boundary must resolve to ranging, got %s", r.Label)
	}
	if r.Confidence != 0 {
		t.Fatalf("boundary confidence = %v, want 0", r.Confidence)
	}
}

func TestClassifyInsufficientHistoryFallsBack(t *testing.T) {
	bars := mkBars(rampSeries(30, 100, 130))
	table := models.IndicatorTable{
		// Only 10 defined ADX values against a 20-bar lookback.
		models.SeriesADX: warmupSeries(30, 20, 40),
		models.SeriesATR: constSeries(30, 2),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeRanging || r.Confidence != 0 {
		t.Fatalf("expected ranging with zero confidence, got %s conf %v", r.Label, r.Confidence)
	}
}

func TestClassifyATRPctSatisfiesVolatilityInput(t *testing.T) {
	bars := mkBars(rampSeries(30, 100, 130))
	table := models.IndicatorTable{
		models.SeriesADX:    constSeries(30, 40),
		models.SeriesATRPct: constSeries(30, 1.5),
	}

	r := NewClassifier(DefaultPolicy()).Classify(bars, table)
	if r.Label != models.RegimeTrending {
		t.Fatalf("ATR_Pct alone should satisfy the volatility input, got %s", r.Label)
	}
}
