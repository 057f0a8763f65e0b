package repository

import (
	"context"

	"StockSight/internal/domain/models"
	domrepo "StockSight/internal/domain/repository"
	pkgkafka "StockSight/pkg/kafka"
)

// KafkaAnalysisPublisher emits analysis events to Kafka, keyed by symbol so
// per-symbol ordering holds.
type KafkaAnalysisPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAnalysisPublisher(producer *pkgkafka.Producer, topic string) *KafkaAnalysisPublisher {
	return &KafkaAnalysisPublisher{producer: producer, topic: topic}
}

func (p *KafkaAnalysisPublisher) PublishAnalysis(ctx context.Context, ev models.AnalysisEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev)
}

func (p *KafkaAnalysisPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ domrepo.AnalysisPublisher = (*KafkaAnalysisPublisher)(nil)

// NopPublisher discards analysis events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishAnalysis(context.Context, models.AnalysisEvent) error { return nil }
func (NopPublisher) Close() error                                                { return nil }

var _ domrepo.AnalysisPublisher = NopPublisher{}
