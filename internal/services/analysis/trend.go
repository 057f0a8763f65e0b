package analysis

import (
	"fmt"
	"math"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
)

// TrendGenerator covers moving-average structure, SuperTrend, the Ichimoku
// cloud, Donchian channel breakouts, KAMA, and PPO/TSI agreement. Strengths
// are scaled by separation relative to ATR where the trigger has a distance.
type TrendGenerator struct {
	policy Policy
}

func NewTrendGenerator(p Policy) *TrendGenerator {
	return &TrendGenerator{policy: p.normalized()}
}

func (g *TrendGenerator) Family() models.Category { return models.CategoryTrend }

func (g *TrendGenerator) Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	if len(bars) == 0 {
		return nil
	}
	price := bars[len(bars)-1].Close
	atr := atrOrFallback(bars, table)

	var out []models.Signal
	if s, ok := g.maSignal(price, atr, table); ok {
		out = append(out, s)
	}
	if s, ok := g.superTrendSignal(price, atr, table); ok {
		out = append(out, s)
	}
	if s, ok := g.ichimokuSignal(price, atr, table); ok {
		out = append(out, s)
	}
	if s, ok := g.donchianSignal(price, table); ok {
		out = append(out, s)
	}
	if s, ok := g.kamaSignal(price, table); ok {
		out = append(out, s)
	}
	if s, ok := g.ppoTsiSignal(table); ok {
		out = append(out, s)
	}
	return out
}

func (g *TrendGenerator) maSignal(price, atr float64, table models.IndicatorTable) (models.Signal, bool) {
	sma5, ok5 := table.Last(models.SeriesSMA5)
	sma10, ok10 := table.Last(models.SeriesSMA10)
	sma20, ok20 := table.Last(models.SeriesSMA20)
	sma60, ok60 := table.Last(models.SeriesSMA60)
	if !ok5 || !ok10 || !ok20 || !ok60 {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "MA", Category: models.CategoryTrend}
	switch {
	case sma5 > sma10 && sma10 > sma20 && sma20 > sma60:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(60 + 20*(sma5-sma60)/atr)
		sig.Description = fmt.Sprintf("bullish MA stack: SMA5 %.2f > SMA10 %.2f > SMA20 %.2f > SMA60 %.2f", sma5, sma10, sma20, sma60)
	case sma5 < sma10 && sma10 < sma20 && sma20 < sma60:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(60 + 20*(sma60-sma5)/atr)
		sig.Description = fmt.Sprintf("bearish MA stack: SMA5 %.2f < SMA10 %.2f < SMA20 %.2f < SMA60 %.2f", sma5, sma10, sma20, sma60)
	case price > sma20 && price > sma60:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(40 + 25*(price-sma20)/atr)
		sig.Description = fmt.Sprintf("close %.2f above SMA20 %.2f and SMA60 %.2f", price, sma20, sma60)
	case price < sma20 && price < sma60:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(40 + 25*(sma20-price)/atr)
		sig.Description = fmt.Sprintf("close %.2f below SMA20 %.2f and SMA60 %.2f", price, sma20, sma60)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("moving averages entangled (SMA5 %.2f, SMA60 %.2f)", sma5, sma60)
	}
	return sig, true
}

func (g *TrendGenerator) superTrendSignal(price, atr float64, table models.IndicatorTable) (models.Signal, bool) {
	st, okST := table.Last(models.SeriesSuperTrend)
	dir, okDir := table.Last(models.SeriesSTDirection)
	if !okST || !okDir {
		return models.Signal{}, false
	}

	rel := math.Min(math.Abs(price-st)/atr, 1)
	sig := models.Signal{Name: "SuperTrend", Category: models.CategoryTrend}
	switch {
	case dir > 0 && price >= st:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(50 + 50*rel)
		sig.Description = fmt.Sprintf("SuperTrend support at %.2f below close %.2f", st, price)
	case dir < 0 && price <= st:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(50 + 50*rel)
		sig.Description = fmt.Sprintf("SuperTrend resistance at %.2f above close %.2f", st, price)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("SuperTrend flipping around %.2f", st)
	}
	return sig, true
}

func (g *TrendGenerator) ichimokuSignal(price, atr float64, table models.IndicatorTable) (models.Signal, bool) {
	tenkan, ok1 := table.Last(models.SeriesIchiTenkan)
	kijun, ok2 := table.Last(models.SeriesIchiKijun)
	senA, ok3 := table.Last(models.SeriesIchiSenkouA)
	senB, ok4 := table.Last(models.SeriesIchiSenkouB)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.Signal{}, false
	}

	cloudTop := math.Max(senA, senB)
	cloudBottom := math.Min(senA, senB)

	sig := models.Signal{Name: "Ichimoku", Category: models.CategoryTrend}
	switch {
	case price > cloudTop && tenkan > kijun:
		rel := math.Min((price-cloudTop)/atr, 1)
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(50 + 50*rel)
		sig.Description = fmt.Sprintf("close %.2f above cloud top %.2f with tenkan %.2f > kijun %.2f", price, cloudTop, tenkan, kijun)
	case price < cloudBottom && tenkan < kijun:
		rel := math.Min((cloudBottom-price)/atr, 1)
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(50 + 50*rel)
		sig.Description = fmt.Sprintf("close %.2f below cloud bottom %.2f with tenkan %.2f < kijun %.2f", price, cloudBottom, tenkan, kijun)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("close %.2f inside or against cloud %.2f-%.2f", price, cloudBottom, cloudTop)
	}
	return sig, true
}

func (g *TrendGenerator) donchianSignal(price float64, table models.IndicatorTable) (models.Signal, bool) {
	upper, ok1 := table.Last(models.SeriesDonchianUpper)
	lower, ok2 := table.Last(models.SeriesDonchianLower)
	if !ok1 || !ok2 || upper-lower <= 0 {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "Donchian", Category: models.CategoryTrend}
	switch {
	case price >= upper:
		sig.Polarity = models.PolarityBuy
		sig.Strength = 70
		sig.Description = fmt.Sprintf("close %.2f broke above the %.2f channel high", price, upper)
	case price <= lower:
		sig.Polarity = models.PolaritySell
		sig.Strength = 70
		sig.Description = fmt.Sprintf("close %.2f broke below the %.2f channel low", price, lower)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("close %.2f inside the %.2f-%.2f channel", price, lower, upper)
	}
	return sig, true
}

func (g *TrendGenerator) kamaSignal(price float64, table models.IndicatorTable) (models.Signal, bool) {
	kama, ok1 := table.Last(models.SeriesKAMA)
	slope, ok2 := table.Last(models.SeriesKAMASlope)
	if !ok1 || !ok2 {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "KAMA", Category: models.CategoryTrend}
	switch {
	case price > kama && slope > 0:
		sig.Polarity = models.PolarityBuy
		sig.Strength = 60
		sig.Description = fmt.Sprintf("close %.2f above rising KAMA %.2f", price, kama)
	case price < kama && slope < 0:
		sig.Polarity = models.PolaritySell
		sig.Strength = 60
		sig.Description = fmt.Sprintf("close %.2f below falling KAMA %.2f", price, kama)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("KAMA flat around %.2f", kama)
	}
	return sig, true
}

func (g *TrendGenerator) ppoTsiSignal(table models.IndicatorTable) (models.Signal, bool) {
	ppo, ok1 := table.Last(models.SeriesPPO)
	ppoSig, ok2 := table.Last(models.SeriesPPOSignal)
	tsi, ok3 := table.Last(models.SeriesTSI)
	tsiSig, ok4 := table.Last(models.SeriesTSISignal)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.Signal{}, false
	}

	ppoBull := ppo > ppoSig
	tsiBull := tsi > tsiSig
	sig := models.Signal{Name: "PPO/TSI", Category: models.CategoryTrend}
	switch {
	case ppoBull && tsiBull:
		sig.Polarity = models.PolarityBuy
		sig.Strength = 75
		sig.Description = fmt.Sprintf("PPO %.2f and TSI %.2f both above their signal lines", ppo, tsi)
	case !ppoBull && !tsiBull:
		sig.Polarity = models.PolaritySell
		sig.Strength = 75
		sig.Description = fmt.Sprintf("PPO %.2f and TSI %.2f both below their signal lines", ppo, tsi)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("PPO and TSI disagree (%.2f vs %.2f)", ppo, tsi)
	}
	return sig, true
}

var _ domsvc.SignalGenerator = (*TrendGenerator)(nil)
