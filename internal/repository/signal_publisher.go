package repository

import (
	"context"

	"TradeLLM/internal/domain/models"
	domrepo "TradeLLM/internal/domain/repository"
)

// MessageProducer is the subset of pkg/kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSignalPublisher emits signals keyed by instrument so a consumer sees
// one instrument's signals in order.
type KafkaSignalPublisher struct {
	producer MessageProducer
	topic    string
}

func NewKafkaSignalPublisher(producer MessageProducer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s *models.TradeSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Instrument), s)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopSignalPublisher is used when Kafka is disabled.
type NoopSignalPublisher struct{}

func (NoopSignalPublisher) Publish(context.Context, *models.TradeSignal) error { return nil }
func (NoopSignalPublisher) Close() error                                       { return nil }

var (
	_ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)
	_ domrepo.SignalPublisher = NoopSignalPublisher{}
)
