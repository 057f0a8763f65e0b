package analysis

import (
	"fmt"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/services/features"
)

// VolatilityGenerator covers Bollinger band touches/breakouts, band-width
// regime shifts, and the Keltner channel squeeze.
type VolatilityGenerator struct {
	policy Policy
}

func NewVolatilityGenerator(p Policy) *VolatilityGenerator {
	return &VolatilityGenerator{policy: p.normalized()}
}

func (g *VolatilityGenerator) Family() models.Category { return models.CategoryVolatility }

func (g *VolatilityGenerator) Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	if len(bars) == 0 {
		return nil
	}
	price := bars[len(bars)-1].Close

	var out []models.Signal
	if s, ok := g.bollingerSignal(price, table); ok {
		out = append(out, s)
	}
	if s, ok := g.widthSignal(price, table); ok {
		out = append(out, s)
	}
	if s, ok := g.keltnerSignal(price, table); ok {
		out = append(out, s)
	}
	return out
}

func (g *VolatilityGenerator) bollingerSignal(price float64, table models.IndicatorTable) (models.Signal, bool) {
	upper, ok1 := table.Last(models.SeriesBBUpper)
	lower, ok2 := table.Last(models.SeriesBBLower)
	if !ok1 || !ok2 {
		return models.Signal{}, false
	}
	width := upper - lower
	if width <= 0 {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "Bollinger", Category: models.CategoryVolatility}
	switch {
	case price <= lower:
		// Extension beyond the band relative to its width drives strength.
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(60 + 100*(lower-price)/width)
		sig.Description = fmt.Sprintf("close %.2f at or below lower band %.2f", price, lower)
	case price >= upper:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(60 + 100*(price-upper)/width)
		sig.Description = fmt.Sprintf("close %.2f at or above upper band %.2f", price, upper)
	default:
		pctB := (price - lower) / width * 100
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("close inside bands (%%B %.1f)", pctB)
	}
	return sig, true
}

func (g *VolatilityGenerator) widthSignal(price float64, table models.IndicatorTable) (models.Signal, bool) {
	w := g.policy.WidthAvgWindow
	widths := table.Series(models.SeriesBBWidth)
	if features.DefinedLen(widths) < w+1 {
		return models.Signal{}, false
	}
	middle, okMid := table.Last(models.SeriesBBMiddle)
	if !okMid {
		return models.Signal{}, false
	}

	latest := widths[len(widths)-1]
	avg := features.Mean(widths[len(widths)-1-w : len(widths)-1])
	if avg <= 0 {
		return models.Signal{}, false
	}
	ratio := latest / avg

	sig := models.Signal{Name: "Volatility", Category: models.CategoryVolatility}
	switch {
	case ratio >= g.policy.WidthExpansionRatio && price > middle:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(30 * ratio)
		sig.Description = fmt.Sprintf("band width expanded %.1fx above its average with close over middle band", ratio)
	case ratio >= g.policy.WidthExpansionRatio && price < middle:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(30 * ratio)
		sig.Description = fmt.Sprintf("band width expanded %.1fx above its average with close under middle band", ratio)
	case ratio <= g.policy.WidthSqueezeRatio:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("volatility squeeze: band width at %.1fx its average", ratio)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("band width near its average (%.1fx)", ratio)
	}
	return sig, true
}

// keltnerSignal fires only while the Bollinger bands sit inside the Keltner
// channel (the squeeze); a close outside the channel is the release.
func (g *VolatilityGenerator) keltnerSignal(price float64, table models.IndicatorTable) (models.Signal, bool) {
	kUpper, ok1 := table.Last(models.SeriesKeltnerUpper)
	kLower, ok2 := table.Last(models.SeriesKeltnerLower)
	bUpper, ok3 := table.Last(models.SeriesBBUpper)
	bLower, ok4 := table.Last(models.SeriesBBLower)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.Signal{}, false
	}
	squeezeOn := bUpper < kUpper && bLower > kLower
	if !squeezeOn {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "Keltner Squeeze", Category: models.CategoryVolatility}
	switch {
	case price > kUpper:
		sig.Polarity = models.PolarityBuy
		sig.Strength = 80
		sig.Description = fmt.Sprintf("squeeze released upward: close %.2f above Keltner upper %.2f", price, kUpper)
	case price < kLower:
		sig.Polarity = models.PolaritySell
		sig.Strength = 80
		sig.Description = fmt.Sprintf("squeeze released downward: close %.2f below Keltner lower %.2f", price, kLower)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("squeeze on: bands %.2f-%.2f inside channel %.2f-%.2f", bLower, bUpper, kLower, kUpper)
	}
	return sig, true
}

var _ domsvc.SignalGenerator = (*VolatilityGenerator)(nil)
