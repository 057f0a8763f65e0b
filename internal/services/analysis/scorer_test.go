package analysis

import (
	"math"
	"testing"

	"StockSight/internal/domain/models"
)

func sig(name string, cat models.Category, p models.Polarity, strength float64) models.Signal {
	return models.Signal{Name: name, Category: cat, Polarity: p, Strength: strength}
}

func TestScoreEmptySignalSet(t *testing.T) {
	got := NewScorer(DefaultPolicy()).Score(nil, models.Regime{Label: models.RegimeRanging})
	if got.Score != 0 {
		t.Fatalf("score = %v, want 0", got.Score)
	}
	if got.Recommendation != "Hold/Neutral" {
		t.Fatalf("recommendation = %q", got.Recommendation)
	}
	if got.BuySignals+got.SellSignals+got.NeutralSignals != 0 {
		t.Fatalf("counts should all be zero: %+v", got)
	}
	if got.Regime != "ranging" {
		t.Fatalf("regime = %q", got.Regime)
	}
}

func TestScoreStaysOnScale(t *testing.T) {
	// Maximal buy pressure in every category cannot push past +100.
	var signals []models.Signal
	for _, cat := range models.Categories() {
		signals = append(signals,
			sig(string(cat)+"-a", cat, models.PolarityBuy, 100),
			sig(string(cat)+"-b", cat, models.PolarityBuy, 100),
		)
	}
	got := NewScorer(DefaultPolicy()).Score(signals, models.Regime{Label: models.RegimeTrending, Direction: "up"})
	if got.Score > 100 || math.Abs(got.Score-100) > 1e-9 {
		t.Fatalf("score = %v, want 100", got.Score)
	}
	if got.Recommendation != "Strong Buy" {
		t.Fatalf("recommendation = %q", got.Recommendation)
	}
}

func TestScoreCategorySubtotalClampedBeforeWeighting(t *testing.T) {
	// Three 100-strength buys in one category count the same as one: the
	// subtotal clamps at 100 before its weight applies.
	s := NewScorer(DefaultPolicy())
	regime := models.Regime{Label: models.RegimeRanging}

	one := s.Score([]models.Signal{
		sig("a", models.CategoryTrend, models.PolarityBuy, 100),
	}, regime)
	three := s.Score([]models.Signal{
		sig("a", models.CategoryTrend, models.PolarityBuy, 100),
		sig("b", models.CategoryTrend, models.PolarityBuy, 100),
		sig("c", models.CategoryTrend, models.PolarityBuy, 100),
	}, regime)
	if one.Score != three.Score {
		t.Fatalf("clamped subtotal should equalize: %v vs %v", one.Score, three.Score)
	}
}

func TestScoreMonotoneInSubtotal(t *testing.T) {
	s := NewScorer(DefaultPolicy())
	regime := models.Regime{Label: models.RegimeRanging}
	prev := math.Inf(-1)
	for _, strength := range []float64{0, 20, 40, 60, 80, 100} {
		got := s.Score([]models.Signal{
			sig("m", models.CategoryMomentum, models.PolarityBuy, strength),
		}, regime)
		if got.Score < prev {
			t.Fatalf("score decreased from %v to %v at strength %v", prev, got.Score, strength)
		}
		prev = got.Score
	}
}

func TestScoreCounts(t *testing.T) {
	got := NewScorer(DefaultPolicy()).Score([]models.Signal{
		sig("a", models.CategoryTrend, models.PolarityBuy, 50),
		sig("b", models.CategoryMomentum, models.PolaritySell, 30),
		sig("c", models.CategoryMomentum, models.PolarityNeutral, 0),
		sig("d", models.CategoryVolume, models.PolarityNeutral, 0),
	}, models.Regime{Label: models.RegimeRanging})
	if got.BuySignals != 1 || got.SellSignals != 1 || got.NeutralSignals != 2 {
		t.Fatalf("counts = %d/%d/%d", got.BuySignals, got.SellSignals, got.NeutralSignals)
	}
}

func TestScoreRegimeReweighting(t *testing.T) {
	// A pure trend buy is worth more when trending than when ranging.
	s := NewScorer(DefaultPolicy())
	signals := []models.Signal{sig("ma", models.CategoryTrend, models.PolarityBuy, 80)}

	trending := s.Score(signals, models.Regime{Label: models.RegimeTrending, Direction: "up"})
	ranging := s.Score(signals, models.Regime{Label: models.RegimeRanging})
	if trending.Score <= ranging.Score {
		t.Fatalf("trend signal should weigh more in a trend: %v vs %v", trending.Score, ranging.Score)
	}

	// And a pure momentum buy is worth more when ranging.
	signals = []models.Signal{sig("rsi", models.CategoryMomentum, models.PolarityBuy, 80)}
	trending = s.Score(signals, models.Regime{Label: models.RegimeTrending, Direction: "up"})
	ranging = s.Score(signals, models.Regime{Label: models.RegimeRanging})
	if ranging.Score <= trending.Score {
		t.Fatalf("momentum signal should weigh more in a range: %v vs %v", ranging.Score, trending.Score)
	}
}

func TestScoreRegimeWeightsRenormalized(t *testing.T) {
	s := NewScorer(DefaultPolicy())
	for _, regime := range []models.Regime{
		{Label: models.RegimeTrending, Direction: "up"},
		{Label: models.RegimeRanging},
	} {
		w := s.regimeWeights(regime)
		total := 0.0
		for _, v := range w {
			total += v
		}
		if math.Abs(total-1) > 1e-9 {
			t.Fatalf("%s weights sum to %v", regime.Label, total)
		}
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "Strong Buy"},
		{60, "Strong Buy"},
		{59.9, "Buy"},
		{20, "Buy"},
		{19.9, "Hold/Neutral"},
		{0, "Hold/Neutral"},
		{-19.9, "Hold/Neutral"},
		{-20, "Sell"},
		{-59.9, "Sell"},
		{-60, "Strong Sell"},
		{-100, "Strong Sell"},
	}
	for _, c := range cases {
		if got := models.Recommendation(c.score); got != c.want {
			t.Fatalf("Recommendation(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
