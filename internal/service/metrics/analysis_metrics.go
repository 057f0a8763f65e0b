package metrics

import (
	"sync"

	domrepo "StockSight/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stocksight",
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Completed analyses by symbol and period",
		},
		[]string{"symbol", "period"},
	)

	AnalysisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stocksight",
			Subsystem: "analysis",
			Name:      "errors_total",
			Help:      "Analysis pipeline errors by stage",
		},
		[]string{"stage"},
	)

	AnalysisScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stocksight",
			Subsystem: "analysis",
			Name:      "composite_score",
			Help:      "Latest composite score per symbol",
		},
		[]string{"symbol"},
	)

	AnalysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stocksight",
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Latency of analysis stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysesTotal, AnalysisErrors, AnalysisScore, AnalysisLatency)
	})
}

// Recorder implements the domain metrics sink on the Prometheus collectors.
type Recorder struct{}

func NewRecorder() *Recorder {
	Register()
	return &Recorder{}
}

func (Recorder) RecordAnalysis(symbol, period string) {
	AnalysesTotal.WithLabelValues(symbol, period).Inc()
}

func (Recorder) RecordError(kind string) {
	AnalysisErrors.WithLabelValues(kind).Inc()
}

func (Recorder) RecordScore(symbol string, score float64) {
	AnalysisScore.WithLabelValues(symbol).Set(score)
}

func (Recorder) RecordLatency(stage string, seconds float64) {
	AnalysisLatency.WithLabelValues(stage).Observe(seconds)
}

var _ domrepo.Metrics = (*Recorder)(nil)
