package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QuoteRecorder tracks the live quote feed using Prometheus.
type QuoteRecorder struct {
	quotesReceived *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	reconnects     prometheus.Counter
}

// NewQuoteRecorder creates a new Prometheus quote-feed recorder.
func NewQuoteRecorder() *QuoteRecorder {
	return &QuoteRecorder{
		quotesReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_quotes_received_total",
				Help: "Total number of quotes received from the feed",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksight_quote_stream_errors_total",
				Help: "Total number of quote stream errors",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksight_last_price",
				Help: "Last streamed price for a symbol",
			},
			[]string{"symbol"},
		),
		reconnects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stocksight_quote_stream_reconnects_total",
				Help: "Total number of quote stream reconnect attempts",
			},
		),
	}
}

// RecordQuote records a received quote and its price.
func (r *QuoteRecorder) RecordQuote(symbol string, price float64) {
	r.quotesReceived.WithLabelValues(symbol).Inc()
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records a stream error occurrence.
func (r *QuoteRecorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordReconnect records a reconnect attempt.
func (r *QuoteRecorder) RecordReconnect() {
	r.reconnects.Inc()
}
