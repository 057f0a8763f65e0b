package analysis

import (
	"fmt"

	"StockSight/internal/domain/models"
	"StockSight/internal/services/features"
	"StockSight/pkg/config"
)

// Policy holds the tunable constants of the scoring pipeline. Production
// values come from configuration; DefaultPolicy is the documented baseline.
type Policy struct {
	// Regime classification.
	RegimeLookback int     // bars of history the classifier inspects
	TrendThreshold float64 // normalized directional strength above which the market is trending
	RegimeBoost    float64 // weight multiplier for the favored category
	RegimeDamp     float64 // weight multiplier for the damped category

	// Category weights before regime adjustment; must sum to 1.
	Weights map[models.Category]float64

	// Momentum thresholds.
	RSIOverbought float64
	RSIOversold   float64
	KDJOverbought float64
	KDJOversold   float64
	CCIBound      float64
	// Williams %R lives on a negative scale: -100 (oversold) to 0 (overbought).
	WillROverbought float64
	WillROversold   float64

	// Volatility band-width regime shifts relative to the recent average width.
	WidthSqueezeRatio   float64
	WidthExpansionRatio float64
	WidthAvgWindow      int

	// Volume confirmation.
	VolumeAvgWindow int
	VolumeHighRatio float64
	VolumeLowRatio  float64
	MFIOverbought   float64
	MFIOversold     float64

	// Divergence detection.
	DivergenceLookbackMult  int     // lookback = RegimeLookback * mult
	DivergenceProminenceATR float64 // price extrema prominence as a fraction of ATR
}

// DefaultPolicy returns the baseline constants.
func DefaultPolicy() Policy {
	return Policy{
		RegimeLookback: 20,
		TrendThreshold: 0.6,
		RegimeBoost:    1.3,
		RegimeDamp:     0.8,
		Weights: map[models.Category]float64{
			models.CategoryTrend:      0.35,
			models.CategoryMomentum:   0.30,
			models.CategoryVolatility: 0.15,
			models.CategoryVolume:     0.10,
			models.CategoryDivergence: 0.10,
		},
		RSIOverbought:           70,
		RSIOversold:             30,
		KDJOverbought:           80,
		KDJOversold:             20,
		CCIBound:                100,
		WillROverbought:         -20,
		WillROversold:           -80,
		WidthSqueezeRatio:       0.6,
		WidthExpansionRatio:     1.5,
		WidthAvgWindow:          20,
		VolumeAvgWindow:         5,
		VolumeHighRatio:         2.0,
		VolumeLowRatio:          0.5,
		MFIOverbought:           80,
		MFIOversold:             20,
		DivergenceLookbackMult:  2,
		DivergenceProminenceATR: 0.5,
	}
}

// PolicyFromConfig maps the configured tuning section onto a Policy.
// Unset fields fall back to the defaults via normalized. A weight keyed by a
// name outside the category taxonomy is rejected rather than silently
// diluting the renormalization.
func PolicyFromConfig(cfg *config.Config) (Policy, error) {
	p := Policy{
		RegimeLookback:          cfg.Analysis.RegimeLookback,
		TrendThreshold:          cfg.Analysis.TrendThreshold,
		RegimeBoost:             cfg.Analysis.RegimeBoost,
		RegimeDamp:              cfg.Analysis.RegimeDamp,
		RSIOverbought:           cfg.Analysis.RSIOverbought,
		RSIOversold:             cfg.Analysis.RSIOversold,
		KDJOverbought:           cfg.Analysis.KDJOverbought,
		KDJOversold:             cfg.Analysis.KDJOversold,
		CCIBound:                cfg.Analysis.CCIBound,
		WillROverbought:         cfg.Analysis.WillROverbought,
		WillROversold:           cfg.Analysis.WillROversold,
		WidthSqueezeRatio:       cfg.Analysis.WidthSqueezeRatio,
		WidthExpansionRatio:     cfg.Analysis.WidthExpansionRatio,
		WidthAvgWindow:          cfg.Analysis.WidthAvgWindow,
		VolumeAvgWindow:         cfg.Analysis.VolumeAvgWindow,
		VolumeHighRatio:         cfg.Analysis.VolumeHighRatio,
		VolumeLowRatio:          cfg.Analysis.VolumeLowRatio,
		MFIOverbought:           cfg.Analysis.MFIOverbought,
		MFIOversold:             cfg.Analysis.MFIOversold,
		DivergenceLookbackMult:  cfg.Analysis.DivergenceLookbackMult,
		DivergenceProminenceATR: cfg.Analysis.DivergenceProminenceATR,
	}
	if len(cfg.Analysis.Weights) > 0 {
		p.Weights = make(map[models.Category]float64, len(cfg.Analysis.Weights))
		for name, w := range cfg.Analysis.Weights {
			c := models.Category(name)
			if !knownCategory(c) {
				return Policy{}, fmt.Errorf("analysis.weights: unknown category %q", name)
			}
			p.Weights[c] = w
		}
	}
	return p.normalized(), nil
}

func knownCategory(c models.Category) bool {
	for _, known := range models.Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// normalized returns a copy of p with zero-valued fields replaced by
// defaults, so a partially filled config still yields a usable policy.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.RegimeLookback <= 0 {
		p.RegimeLookback = def.RegimeLookback
	}
	if p.TrendThreshold <= 0 {
		p.TrendThreshold = def.TrendThreshold
	}
	if p.RegimeBoost <= 0 {
		p.RegimeBoost = def.RegimeBoost
	}
	if p.RegimeDamp <= 0 {
		p.RegimeDamp = def.RegimeDamp
	}
	if len(p.Weights) == 0 {
		p.Weights = def.Weights
	}
	if p.RSIOverbought <= 0 {
		p.RSIOverbought = def.RSIOverbought
	}
	if p.RSIOversold <= 0 {
		p.RSIOversold = def.RSIOversold
	}
	if p.KDJOverbought <= 0 {
		p.KDJOverbought = def.KDJOverbought
	}
	if p.KDJOversold <= 0 {
		p.KDJOversold = def.KDJOversold
	}
	if p.CCIBound <= 0 {
		p.CCIBound = def.CCIBound
	}
	// Williams %R thresholds are negative, so zero means unset.
	if p.WillROverbought == 0 {
		p.WillROverbought = def.WillROverbought
	}
	if p.WillROversold == 0 {
		p.WillROversold = def.WillROversold
	}
	if p.WidthSqueezeRatio <= 0 {
		p.WidthSqueezeRatio = def.WidthSqueezeRatio
	}
	if p.WidthExpansionRatio <= 0 {
		p.WidthExpansionRatio = def.WidthExpansionRatio
	}
	if p.WidthAvgWindow <= 0 {
		p.WidthAvgWindow = def.WidthAvgWindow
	}
	if p.VolumeAvgWindow <= 0 {
		p.VolumeAvgWindow = def.VolumeAvgWindow
	}
	if p.VolumeHighRatio <= 0 {
		p.VolumeHighRatio = def.VolumeHighRatio
	}
	if p.VolumeLowRatio <= 0 {
		p.VolumeLowRatio = def.VolumeLowRatio
	}
	if p.MFIOverbought <= 0 {
		p.MFIOverbought = def.MFIOverbought
	}
	if p.MFIOversold <= 0 {
		p.MFIOversold = def.MFIOversold
	}
	if p.DivergenceLookbackMult <= 0 {
		p.DivergenceLookbackMult = def.DivergenceLookbackMult
	}
	if p.DivergenceProminenceATR <= 0 {
		p.DivergenceProminenceATR = def.DivergenceProminenceATR
	}
	return p
}

// closes extracts the close series of the bar sequence.
func closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = bars[i].Close
	}
	return out
}

// atrOrFallback returns the latest ATR, falling back to 1% of the latest
// close when the ATR series is absent or still warming up. Keeps strength
// normalization meaningful on short histories.
func atrOrFallback(bars []models.Bar, table models.IndicatorTable) float64 {
	if atr, ok := table.Last(models.SeriesATR); ok && atr > 0 {
		return atr
	}
	if len(bars) > 0 && bars[len(bars)-1].Close > 0 {
		return bars[len(bars)-1].Close * 0.01
	}
	return 1
}

func clamp01to100(v float64) float64 { return features.Clamp(v, 0, 100) }
