package analysis

import (
	"strings"
	"testing"

	"StockSight/internal/domain/models"
	"StockSight/pkg/config"
)

func TestPolicyFromConfigMapsFields(t *testing.T) {
	var cfg config.Config
	cfg.Analysis.RegimeLookback = 25
	cfg.Analysis.TrendThreshold = 0.7
	cfg.Analysis.RegimeBoost = 1.4
	cfg.Analysis.RegimeDamp = 0.7
	cfg.Analysis.RSIOverbought = 75
	cfg.Analysis.RSIOversold = 25
	cfg.Analysis.WillROverbought = -15
	cfg.Analysis.WillROversold = -85
	cfg.Analysis.WidthSqueezeRatio = 0.5
	cfg.Analysis.WidthExpansionRatio = 1.8
	cfg.Analysis.WidthAvgWindow = 25
	cfg.Analysis.VolumeAvgWindow = 7
	cfg.Analysis.VolumeHighRatio = 2.5
	cfg.Analysis.VolumeLowRatio = 0.4
	cfg.Analysis.MFIOverbought = 85
	cfg.Analysis.MFIOversold = 15
	cfg.Analysis.DivergenceLookbackMult = 3
	cfg.Analysis.DivergenceProminenceATR = 0.8
	cfg.Analysis.Weights = map[string]float64{
		"trend":      0.4,
		"momentum":   0.3,
		"volatility": 0.1,
		"volume":     0.1,
		"divergence": 0.1,
	}

	p, err := PolicyFromConfig(&cfg)
	if err != nil {
		t.Fatalf("policy from config: %v", err)
	}
	if p.RegimeLookback != 25 || p.TrendThreshold != 0.7 {
		t.Fatalf("regime fields not mapped: %+v", p)
	}
	if p.WillROverbought != -15 || p.WillROversold != -85 {
		t.Fatalf("Williams %%R thresholds not mapped: %v / %v", p.WillROverbought, p.WillROversold)
	}
	if p.WidthSqueezeRatio != 0.5 || p.WidthExpansionRatio != 1.8 || p.WidthAvgWindow != 25 {
		t.Fatalf("width fields not mapped: %+v", p)
	}
	if p.VolumeAvgWindow != 7 || p.VolumeHighRatio != 2.5 || p.VolumeLowRatio != 0.4 {
		t.Fatalf("volume fields not mapped: %+v", p)
	}
	if p.MFIOverbought != 85 || p.MFIOversold != 15 {
		t.Fatalf("MFI thresholds not mapped: %v / %v", p.MFIOverbought, p.MFIOversold)
	}
	if p.DivergenceLookbackMult != 3 || p.DivergenceProminenceATR != 0.8 {
		t.Fatalf("divergence fields not mapped: %+v", p)
	}
	if p.Weights[models.CategoryTrend] != 0.4 {
		t.Fatalf("weights not mapped: %+v", p.Weights)
	}
}

func TestPolicyFromConfigRejectsUnknownWeightKey(t *testing.T) {
	var cfg config.Config
	cfg.Analysis.Weights = map[string]float64{"momo": 0.5, "trend": 0.5}

	_, err := PolicyFromConfig(&cfg)
	if err == nil {
		t.Fatalf("expected an error for an unknown weight key")
	}
	if !strings.Contains(err.Error(), "momo") {
		t.Fatalf("error should name the bad key, got %v", err)
	}
}

func TestPolicyFromConfigDefaultsWhenUnset(t *testing.T) {
	p, err := PolicyFromConfig(&config.Config{})
	if err != nil {
		t.Fatalf("policy from config: %v", err)
	}
	def := DefaultPolicy()
	if p.RegimeLookback != def.RegimeLookback || p.RSIOverbought != def.RSIOverbought {
		t.Fatalf("empty config should fall back to defaults: %+v", p)
	}
	if p.WillROverbought != def.WillROverbought || p.WillROversold != def.WillROversold {
		t.Fatalf("negative-scale thresholds should default: %v / %v", p.WillROverbought, p.WillROversold)
	}
	if p.Weights[models.CategoryDivergence] != def.Weights[models.CategoryDivergence] {
		t.Fatalf("weights should default: %+v", p.Weights)
	}
}
