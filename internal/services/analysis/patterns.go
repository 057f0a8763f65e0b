package analysis

import (
	"fmt"
	"math"
	"strings"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/services/features"
)

// PatternGenerator recognizes single- and two-candle reversal shapes on the
// latest bars and folds them into one aggregate signal. Bullish shapes need
// a preceding decline and bearish shapes a preceding advance; a doji with no
// directional shapes reads as indecision.
type PatternGenerator struct {
	policy Policy
}

func NewPatternGenerator(p Policy) *PatternGenerator {
	return &PatternGenerator{policy: p.normalized()}
}

func (g *PatternGenerator) Family() models.Category { return models.CategoryDivergence }

// contextBars is how many closes before the candle set the reversal context.
const contextBars = 5

func (g *PatternGenerator) Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	if len(bars) < 2 {
		return nil
	}
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	downtrend, uptrend := priorTrend(bars)

	var bullish, bearish, neutral []string
	if bullishEngulfing(prev, last) {
		bullish = append(bullish, "bullish engulfing")
	}
	if bearishEngulfing(prev, last) {
		bearish = append(bearish, "bearish engulfing")
	}
	if lowerShadowDominant(last) {
		if downtrend {
			bullish = append(bullish, "hammer")
		} else if uptrend {
			bearish = append(bearish, "hanging man")
		}
	}
	if upperShadowDominant(last) {
		if downtrend {
			bullish = append(bullish, "inverted hammer")
		} else if uptrend {
			bearish = append(bearish, "shooting star")
		}
	}
	if isDoji(last) {
		neutral = append(neutral, "doji")
	}

	sig := models.Signal{Name: "Candlestick", Category: models.CategoryDivergence}
	switch {
	case len(bullish) > len(bearish):
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(float64(len(bullish)) * 30)
		sig.Description = fmt.Sprintf("bullish candlestick shapes: %s", strings.Join(bullish, ", "))
	case len(bearish) > len(bullish):
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(float64(len(bearish)) * 30)
		sig.Description = fmt.Sprintf("bearish candlestick shapes: %s", strings.Join(bearish, ", "))
	case len(neutral) > 0:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("indecision shapes: %s", strings.Join(neutral, ", "))
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = "no distinct candlestick shape"
	}
	return []models.Signal{sig}
}

// priorTrend reads the slope of the closes leading into the latest candle.
func priorTrend(bars []models.Bar) (down, up bool) {
	end := len(bars) - 1
	start := end - contextBars
	if start < 0 {
		start = 0
	}
	if end-start < 2 {
		return false, false
	}
	window := make([]float64, 0, end-start)
	for _, b := range bars[start:end] {
		window = append(window, b.Close)
	}
	slope := features.Slope(window)
	return slope < 0, slope > 0
}

func body(b models.Bar) float64 { return math.Abs(b.Close - b.Open) }

func candleRange(b models.Bar) float64 { return b.High - b.Low }

func lowerShadow(b models.Bar) float64 { return math.Min(b.Open, b.Close) - b.Low }

func upperShadow(b models.Bar) float64 { return b.High - math.Max(b.Open, b.Close) }

// lowerShadowDominant matches a hammer shape: long lower wick, small body
// near the top of the range.
func lowerShadowDominant(b models.Bar) bool {
	bd := body(b)
	return bd > 0 && lowerShadow(b) >= 2*bd && upperShadow(b) <= bd
}

func upperShadowDominant(b models.Bar) bool {
	bd := body(b)
	return bd > 0 && upperShadow(b) >= 2*bd && lowerShadow(b) <= bd
}

func isDoji(b models.Bar) bool {
	rng := candleRange(b)
	return rng > 0 && body(b) <= 0.1*rng
}

func bullishEngulfing(prev, cur models.Bar) bool {
	return prev.Close < prev.Open && cur.Close > cur.Open &&
		cur.Open <= prev.Close && cur.Close >= prev.Open && body(cur) > body(prev)
}

func bearishEngulfing(prev, cur models.Bar) bool {
	return prev.Close > prev.Open && cur.Close < cur.Open &&
		cur.Open >= prev.Close && cur.Close <= prev.Open && body(cur) > body(prev)
}

var _ domsvc.SignalGenerator = (*PatternGenerator)(nil)
