// Package repository provides the concrete adapters behind the domain
// repository interfaces.
package repository

import (
	"context"
	"fmt"

	"CryptoAnalyst/internal/domain/models"
	domrepo "CryptoAnalyst/internal/domain/repository"
	"CryptoAnalyst/pkg/kafka"
)

// KafkaAuditPublisher writes one audit event per analysis to a Kafka topic,
// keyed by the primary resolved ticker so per-asset history stays ordered
// within a partition.
type KafkaAuditPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaAuditPublisher(producer *kafka.Producer, topic string) (*KafkaAuditPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("nil kafka producer")
	}
	if topic == "" {
		return nil, fmt.Errorf("empty audit topic")
	}
	return &KafkaAuditPublisher{producer: producer, topic: topic}, nil
}

func (p *KafkaAuditPublisher) Publish(ctx context.Context, ev models.AuditEvent) error {
	key := []byte("unresolved")
	if len(ev.Tickers) > 0 {
		key = []byte(ev.Tickers[0])
	}
	return p.producer.Publish(ctx, p.topic, key, ev)
}

func (p *KafkaAuditPublisher) Close() error {
	return p.producer.Close()
}

// NoopAuditPublisher satisfies the interface when auditing is disabled.
type NoopAuditPublisher struct{}

func (NoopAuditPublisher) Publish(context.Context, models.AuditEvent) error { return nil }
func (NoopAuditPublisher) Close() error                                     { return nil }

var (
	_ domrepo.AuditPublisher = (*KafkaAuditPublisher)(nil)
	_ domrepo.AuditPublisher = NoopAuditPublisher{}
)
