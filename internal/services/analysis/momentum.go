package analysis

import (
	"fmt"
	"math"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
)

// MomentumGenerator covers RSI, MACD, KDJ, CCI, ROC, and Williams %R.
// Strength scales with distance past the threshold or crossover magnitude.
type MomentumGenerator struct {
	policy Policy
}

func NewMomentumGenerator(p Policy) *MomentumGenerator {
	return &MomentumGenerator{policy: p.normalized()}
}

func (g *MomentumGenerator) Family() models.Category { return models.CategoryMomentum }

func (g *MomentumGenerator) Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	if len(bars) == 0 {
		return nil
	}
	atr := atrOrFallback(bars, table)

	var out []models.Signal
	if s, ok := g.rsiSignal(table); ok {
		out = append(out, s)
	}
	if s, ok := g.macdSignal(atr, table); ok {
		out = append(out, s)
	}
	if s, ok := g.kdjSignal(table); ok {
		out = append(out, s)
	}
	if s, ok := g.cciSignal(table); ok {
		out = append(out, s)
	}
	if s, ok := g.rocSignal(table); ok {
		out = append(out, s)
	}
	if s, ok := g.willrSignal(table); ok {
		out = append(out, s)
	}
	return out
}

func (g *MomentumGenerator) rsiSignal(table models.IndicatorTable) (models.Signal, bool) {
	rsi, ok := table.Last(models.SeriesRSI)
	if !ok {
		return models.Signal{}, false
	}
	ob := g.policy.RSIOverbought
	os := g.policy.RSIOversold

	sig := models.Signal{Name: "RSI", Category: models.CategoryMomentum}
	switch {
	case rsi > ob:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100((rsi - ob) / (100 - ob) * 100)
		sig.Description = fmt.Sprintf("RSI at %.1f crossed above %.0f overbought threshold", rsi, ob)
	case rsi < os:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100((os - rsi) / os * 100)
		sig.Description = fmt.Sprintf("RSI at %.1f crossed below %.0f oversold threshold", rsi, os)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("RSI neutral at %.1f", rsi)
	}
	return sig, true
}

func (g *MomentumGenerator) macdSignal(atr float64, table models.IndicatorTable) (models.Signal, bool) {
	macd, ok1 := table.Last(models.SeriesMACD)
	signal, ok2 := table.Last(models.SeriesMACDSig)
	hist, ok3 := table.Last(models.SeriesMACDHist)
	if !ok1 || !ok2 || !ok3 {
		return models.Signal{}, false
	}

	// Histogram magnitude relative to ATR keeps strength comparable across
	// price scales.
	strength := clamp01to100(200 * math.Abs(hist) / atr)

	sig := models.Signal{Name: "MACD", Category: models.CategoryMomentum}
	switch {
	case macd > signal && hist > 0:
		sig.Polarity = models.PolarityBuy
		sig.Strength = strength
		sig.Description = fmt.Sprintf("MACD %.4f above signal %.4f, histogram %.4f", macd, signal, hist)
	case macd < signal && hist < 0:
		sig.Polarity = models.PolaritySell
		sig.Strength = strength
		sig.Description = fmt.Sprintf("MACD %.4f below signal %.4f, histogram %.4f", macd, signal, hist)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("MACD %.4f and signal %.4f converging", macd, signal)
	}
	return sig, true
}

func (g *MomentumGenerator) kdjSignal(table models.IndicatorTable) (models.Signal, bool) {
	k, ok1 := table.Last(models.SeriesK)
	d, ok2 := table.Last(models.SeriesD)
	j, ok3 := table.Last(models.SeriesJ)
	if !ok1 || !ok2 || !ok3 {
		return models.Signal{}, false
	}
	ob := g.policy.KDJOverbought
	os := g.policy.KDJOversold

	sig := models.Signal{Name: "KDJ", Category: models.CategoryMomentum}
	switch {
	case k > d && j < os:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100((os - j) / os * 100)
		sig.Description = fmt.Sprintf("KDJ golden cross in oversold zone (K %.1f > D %.1f, J %.1f)", k, d, j)
	case k < d && j > ob:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100((j - ob) / (100 - ob) * 100)
		sig.Description = fmt.Sprintf("KDJ dead cross in overbought zone (K %.1f < D %.1f, J %.1f)", k, d, j)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("KDJ neutral (K %.1f, D %.1f, J %.1f)", k, d, j)
	}
	return sig, true
}

func (g *MomentumGenerator) cciSignal(table models.IndicatorTable) (models.Signal, bool) {
	cci, ok := table.Last(models.SeriesCCI)
	if !ok {
		return models.Signal{}, false
	}
	bound := g.policy.CCIBound

	sig := models.Signal{Name: "CCI", Category: models.CategoryMomentum}
	switch {
	case cci > bound:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100((cci - bound) / 2)
		sig.Description = fmt.Sprintf("CCI at %.1f above +%.0f overbought bound", cci, bound)
	case cci < -bound:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100((-bound - cci) / 2)
		sig.Description = fmt.Sprintf("CCI at %.1f below -%.0f oversold bound", cci, bound)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("CCI in normal range at %.1f", cci)
	}
	return sig, true
}

func (g *MomentumGenerator) rocSignal(table models.IndicatorTable) (models.Signal, bool) {
	roc, ok := table.Last(models.SeriesROC)
	if !ok {
		return models.Signal{}, false
	}
	prev, okPrev := table.At(models.SeriesROC, 1)
	if !okPrev {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "ROC", Category: models.CategoryMomentum}
	switch {
	case roc > 0 && prev <= 0:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(10 * math.Abs(roc))
		sig.Description = fmt.Sprintf("ROC crossed above zero to %.2f", roc)
	case roc < 0 && prev >= 0:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(10 * math.Abs(roc))
		sig.Description = fmt.Sprintf("ROC crossed below zero to %.2f", roc)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("ROC steady at %.2f", roc)
	}
	return sig, true
}

func (g *MomentumGenerator) willrSignal(table models.IndicatorTable) (models.Signal, bool) {
	wr, ok := table.Last(models.SeriesWILLR)
	if !ok {
		return models.Signal{}, false
	}
	ob := g.policy.WillROverbought
	os := g.policy.WillROversold

	sig := models.Signal{Name: "Williams %R", Category: models.CategoryMomentum}
	switch {
	case wr < os:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100((os - wr) / math.Abs(os) * 100)
		sig.Description = fmt.Sprintf("Williams %%R at %.1f below %.0f oversold threshold", wr, os)
	case wr > ob:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100((wr - ob) / math.Abs(ob) * 100)
		sig.Description = fmt.Sprintf("Williams %%R at %.1f above %.0f overbought threshold", wr, ob)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("Williams %%R neutral at %.1f", wr)
	}
	return sig, true
}

var _ domsvc.SignalGenerator = (*MomentumGenerator)(nil)
