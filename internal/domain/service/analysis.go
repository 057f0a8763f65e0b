package service

import (
	"context"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
)

// SignalGenerator inspects one indicator family and emits zero or more
// signals. Generators are pure: identical inputs yield identical output, and
// insufficient warm-up data yields an empty slice rather than an error.
type SignalGenerator interface {
	Family() models.Category
	Generate(bars []models.Bar, table models.IndicatorTable) []models.Signal
}

// RegimeClassifier labels the current market state.
type RegimeClassifier interface {
	Classify(bars []models.Bar, table models.IndicatorTable) models.Regime
}

// DivergenceDetector compares price extrema against oscillator extrema.
type DivergenceDetector interface {
	Detect(bars []models.Bar, table models.IndicatorTable) []models.Signal
}

// IndicatorProvider supplies the computed indicator table for a bar sequence.
// Computation happens upstream; the core only consumes the aligned series.
type IndicatorProvider interface {
	Fetch(ctx context.Context, symbol string, p domrepo.Period, bars []models.Bar) (models.IndicatorTable, error)
}
