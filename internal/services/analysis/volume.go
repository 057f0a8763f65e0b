package analysis

import (
	"fmt"
	"math"

	"StockSight/internal/domain/models"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/services/features"
)

// VolumeGenerator confirms price moves with traded volume relative to the
// recent average, money-flow agreement (MFI + CMF), and the Force Index.
type VolumeGenerator struct {
	policy Policy
}

func NewVolumeGenerator(p Policy) *VolumeGenerator {
	return &VolumeGenerator{policy: p.normalized()}
}

func (g *VolumeGenerator) Family() models.Category { return models.CategoryVolume }

func (g *VolumeGenerator) Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal {
	var out []models.Signal
	if s, ok := g.ratioSignal(bars); ok {
		out = append(out, s)
	}
	if s, ok := g.moneyFlowSignal(table); ok {
		out = append(out, s)
	}
	if s, ok := g.forceIndexSignal(table); ok {
		out = append(out, s)
	}
	return out
}

func (g *VolumeGenerator) ratioSignal(bars []models.Bar) (models.Signal, bool) {
	w := g.policy.VolumeAvgWindow
	// Needs the window plus the latest bar.
	if len(bars) < w+1 {
		return models.Signal{}, false
	}

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	vols := make([]float64, w)
	for i := 0; i < w; i++ {
		vols[i] = bars[len(bars)-1-w+i].Volume
	}
	avg := features.Mean(vols)
	if avg <= 0 {
		return models.Signal{}, false
	}
	ratio := last.Volume / avg

	sig := models.Signal{Name: "Volume", Category: models.CategoryVolume}
	switch {
	case ratio >= g.policy.VolumeHighRatio && last.Close > prev.Close:
		sig.Polarity = models.PolarityBuy
		sig.Strength = clamp01to100(ratio * 30)
		sig.Description = fmt.Sprintf("volume %.1fx its %d-bar average on an up close", ratio, w)
	case ratio >= g.policy.VolumeHighRatio && last.Close < prev.Close:
		sig.Polarity = models.PolaritySell
		sig.Strength = clamp01to100(ratio * 30)
		sig.Description = fmt.Sprintf("volume %.1fx its %d-bar average on a down close", ratio, w)
	case ratio <= g.policy.VolumeLowRatio:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("volume contraction to %.1fx its %d-bar average", ratio, w)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("volume unremarkable at %.1fx its %d-bar average", ratio, w)
	}
	return sig, true
}

// moneyFlowSignal requires MFI and CMF to agree before taking a side.
func (g *VolumeGenerator) moneyFlowSignal(table models.IndicatorTable) (models.Signal, bool) {
	mfi, ok1 := table.Last(models.SeriesMFI)
	cmf, ok2 := table.Last(models.SeriesCMF)
	if !ok1 || !ok2 {
		return models.Signal{}, false
	}

	sig := models.Signal{Name: "Money Flow", Category: models.CategoryVolume}
	switch {
	case mfi < g.policy.MFIOversold && cmf > 0:
		sig.Polarity = models.PolarityBuy
		sig.Strength = 70
		sig.Description = fmt.Sprintf("MFI %.1f oversold with positive CMF %.2f", mfi, cmf)
	case mfi > g.policy.MFIOverbought && cmf < 0:
		sig.Polarity = models.PolaritySell
		sig.Strength = 70
		sig.Description = fmt.Sprintf("MFI %.1f overbought with negative CMF %.2f", mfi, cmf)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = fmt.Sprintf("money flow neutral (MFI %.1f, CMF %.2f)", mfi, cmf)
	}
	return sig, true
}

func (g *VolumeGenerator) forceIndexSignal(table models.IndicatorTable) (models.Signal, bool) {
	fi, ok := table.Last(models.SeriesForceIndex)
	if !ok {
		return models.Signal{}, false
	}

	// Self-normalizing strength: |fi|/(|fi|+1) approaches 1 for large moves.
	strength := clamp01to100(math.Min(math.Abs(fi)/(math.Abs(fi)+1)*100, 80))
	sig := models.Signal{Name: "Force Index", Category: models.CategoryVolume}
	switch {
	case fi > 0:
		sig.Polarity = models.PolarityBuy
		sig.Strength = strength
		sig.Description = fmt.Sprintf("positive force index %.1f", fi)
	case fi < 0:
		sig.Polarity = models.PolaritySell
		sig.Strength = strength
		sig.Description = fmt.Sprintf("negative force index %.1f", fi)
	default:
		sig.Polarity = models.PolarityNeutral
		sig.Strength = 0
		sig.Description = "force index flat at zero"
	}
	return sig, true
}

var _ domsvc.SignalGenerator = (*VolumeGenerator)(nil)
