package analysis

import (
	"fmt"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/services/features"
)

// Detector finds regular price/oscillator divergences over a rolling window.
// Price extrema are filtered by ATR-relative prominence so noise does not
// register; each oscillator contributes at most one signal per analysis.
type Detector struct {
	policy Policy
}

func NewDetector(p Policy) *Detector {
	return &Detector{policy: p.normalized()}
}

// oscillators inspected for divergence, in emission order.
func (d *Detector) oscillators() []struct{ series, name string } {
	return []struct{ series, name string }{
		{models.SeriesRSI, "RSI Divergence"},
		{models.SeriesMACDHist, "MACD Divergence"},
	}
}

func (d *Detector) Detect(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	window := d.policy.RegimeLookback * d.policy.DivergenceLookbackMult
	if len(bars) < window {
		window = len(bars)
	}
	if window < 5 {
		return nil
	}

	price := features.Tail(closes(bars), window)
	minProm := d.policy.DivergenceProminenceATR * atrOrFallback(bars, table)

	var out []models.Signal
	for _, osc := range d.oscillators() {
		series := table.Series(osc.series)
		if features.DefinedLen(series) < window {
			continue
		}
		oscWin := features.Tail(series, window)
		if s, ok := d.detectOne(osc.name, price, oscWin, minProm); ok {
			out = append(out, s)
		}
	}
	return out
}

// detectOne compares the last two price extrema against the oscillator at
// the same positions. A bearish divergence is a higher price high with a
// lower oscillator high; a bullish one a lower price low with a higher
// oscillator low. When both forms appear the one whose second extremum is
// more recent wins.
func (d *Detector) detectOne(name string, price, osc []float64, minProm float64) (models.Signal, bool) {
	oscRange := features.Range(osc)
	if oscRange <= 0 {
		return models.Signal{}, false
	}

	type candidate struct {
		sig    models.Signal
		second int
	}
	var best *candidate

	if peaks := features.Peaks(price, minProm); len(peaks) >= 2 {
		a, b := peaks[len(peaks)-2], peaks[len(peaks)-1]
		if price[b] > price[a] && osc[b] < osc[a] {
			counter := osc[a] - osc[b]
			best = &candidate{
				sig: models.Signal{
					Name:        name,
					Polarity:    models.PolaritySell,
					Strength:    clamp01to100(100 * counter / oscRange),
					Description: fmt.Sprintf("bearish divergence: price high %.2f above %.2f while oscillator fell %.2f to %.2f", price[b], price[a], osc[a], osc[b]),
					Category:    models.CategoryDivergence,
				},
				second: b,
			}
		}
	}

	if troughs := features.Troughs(price, minProm); len(troughs) >= 2 {
		a, b := troughs[len(troughs)-2], troughs[len(troughs)-1]
		if price[b] < price[a] && osc[b] > osc[a] {
			counter := osc[b] - osc[a]
			if best == nil || b > best.second {
				best = &candidate{
					sig: models.Signal{
						Name:        name,
						Polarity:    models.PolarityBuy,
						Strength:    clamp01to100(100 * counter / oscRange),
						Description: fmt.Sprintf("bullish divergence: price low %.2f below %.2f while oscillator rose %.2f to %.2f", price[b], price[a], osc[a], osc[b]),
						Category:    models.CategoryDivergence,
					},
					second: b,
				}
			}
		}
	}

	if best == nil {
		return models.Signal{}, false
	}
	return best.sig, true
}

var _ domsvc.DivergenceDetector = (*Detector)(nil)
