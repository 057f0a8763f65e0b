package analysis

import (
	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/services/features"
)

// adxScale maps ADX readings onto [0,1]; values at or above 50 count as
// maximal directional strength.
const adxScale = 50.0

// Classifier labels the market as trending or ranging from directional
// strength (ADX) and volatility (ATR) over a fixed lookback window.
type Classifier struct {
	policy Policy
}

func NewClassifier(p Policy) *Classifier {
	return &Classifier{policy: p.normalized()}
}

// Classify is pure and deterministic. When the lookback exceeds the
// warm-up-adjusted history of either input it falls back to ranging with
// zero confidence instead of failing.
func (c *Classifier) Classify(bars []models.Bar, table models.IndicatorTable) models.Regime {
	lb := c.policy.RegimeLookback
	fallback := models.Regime{Label: models.RegimeRanging, Confidence: 0}

	if len(bars) < lb {
		return fallback
	}
	if features.DefinedLen(table.Series(models.SeriesADX)) < lb {
		return fallback
	}
	if features.DefinedLen(table.Series(models.SeriesATR)) < lb &&
		features.DefinedLen(table.Series(models.SeriesATRPct)) < lb {
		return fallback
	}

	adx, ok := table.Last(models.SeriesADX)
	if !ok {
		return fallback
	}

	norm := features.Clamp(adx/adxScale, 0, 1)
	thr := c.policy.TrendThreshold

	// Exactly at threshold resolves to ranging.
	if norm > thr {
		dir := "up"
		if features.Slope(features.Tail(closes(bars), lb)) < 0 {
			dir = "down"
		}
		return models.Regime{
			Label:      models.RegimeTrending,
			Direction:  dir,
			Confidence: features.Clamp((norm-thr)/(1-thr), 0, 1),
		}
	}
	return models.Regime{
		Label:      models.RegimeRanging,
		Confidence: features.Clamp((thr-norm)/thr, 0, 1),
	}
}

var _ domsvc.RegimeClassifier = (*Classifier)(nil)
