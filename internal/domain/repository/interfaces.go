package repository

import (
	"context"

	"CryptoAnalyst/internal/domain/models"
)

// AuditPublisher publishes one event per completed analysis. Publish failures
// must never fail the request that produced the event.
type AuditPublisher interface {
	Publish(ctx context.Context, ev models.AuditEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordResolution(origin string)
	RecordHitl(reason string)
	RecordWarning(kind string)
	RecordStageDuration(stage string, seconds float64)
	RecordError(kind string)
}
