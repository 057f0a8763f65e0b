package analysis

import (
	"StockSight/internal/domain/models"
	"StockSight/internal/services/features"
)

// Scorer folds all signals into one regime-weighted composite score on
// [-100, +100] and its recommendation band.
type Scorer struct {
	policy Policy
}

func NewScorer(p Policy) *Scorer {
	return &Scorer{policy: p.normalized()}
}

// Score is pure and deterministic. Category subtotals are clamped before
// weighting so one loud category cannot dominate, and regime-adjusted
// weights are renormalized so the score stays on the fixed scale.
func (s *Scorer) Score(signals []models.Signal, regime models.Regime) models.CompositeScore {
	subtotals := make(map[models.Category]float64, len(s.policy.Weights))
	var buys, sells, neutrals int

	for _, sig := range signals {
		switch sig.Polarity {
		case models.PolarityBuy:
			buys++
		case models.PolaritySell:
			sells++
		default:
			neutrals++
		}
		subtotals[sig.Category] += sig.Polarity.Sign() * sig.Strength
	}

	weights := s.regimeWeights(regime)
	score := 0.0
	// Fixed iteration order keeps float summation deterministic.
	for _, cat := range models.Categories() {
		score += weights[cat] * features.Clamp(subtotals[cat], -100, 100)
	}
	score = features.Clamp(score, -100, 100)

	return models.CompositeScore{
		Score:          score,
		Recommendation: models.Recommendation(score),
		BuySignals:     buys,
		SellSignals:    sells,
		NeutralSignals: neutrals,
		Regime:         regime.String(),
	}
}

// regimeWeights applies the boost/damp multipliers of the classified regime
// and renormalizes so the weights sum to 1.
func (s *Scorer) regimeWeights(regime models.Regime) map[models.Category]float64 {
	out := make(map[models.Category]float64, len(s.policy.Weights))
	for cat, w := range s.policy.Weights {
		out[cat] = w
	}

	switch regime.Label {
	case models.RegimeTrending:
		out[models.CategoryTrend] *= s.policy.RegimeBoost
		out[models.CategoryMomentum] *= s.policy.RegimeDamp
	case models.RegimeRanging:
		out[models.CategoryMomentum] *= s.policy.RegimeBoost
		out[models.CategoryVolatility] *= s.policy.RegimeBoost
		out[models.CategoryTrend] *= s.policy.RegimeDamp
	}

	total := 0.0
	for _, cat := range models.Categories() {
		total += out[cat]
	}
	if total <= 0 {
		return out
	}
	for cat := range out {
		out[cat] /= total
	}
	return out
}
