package repository

import (
	"context"
	"time"

	"StockSight/internal/domain/models"
)

// BarStore provides read-only access to OHLCV bars for analysis. The store is
// the data-fetch collaborator's storage side: it owns alignment and never
// returns partial or garbled series.
type BarStore interface {
	LatestBars(ctx context.Context, symbol string, n int, p Period) ([]models.Bar, error)
	Bars(ctx context.Context, symbol string, from, to time.Time, p Period) ([]models.Bar, error)
	SecurityName(ctx context.Context, symbol string) (string, error)
	Health(ctx context.Context) error
}

// AnalysisPublisher emits completed-analysis events for downstream consumers.
type AnalysisPublisher interface {
	PublishAnalysis(ctx context.Context, ev models.AnalysisEvent) error
	Close() error
}

// QuoteStream maintains live last-trade quotes per symbol.
type QuoteStream interface {
	Run(ctx context.Context) error
	Last(symbol string) (models.Quote, bool)
	IsConnected() bool
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordAnalysis(symbol, period string)
	RecordError(kind string)
	RecordScore(symbol string, score float64)
	RecordLatency(stage string, seconds float64)
}
