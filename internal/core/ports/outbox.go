package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event persisted with the change that raised it.
type OutboxMessage struct {
	ID          kernel.UUID
	EventName   string
	AggregateID kernel.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository reads and writes the transactional outbox.
type OutboxRepository interface {
	Add(ctx context.Context, events ...kernel.DomainEvent) error

	// ListUnpublished returns up to limit messages, oldest first.
	ListUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher delivers an outbox message to the broker. Delivery is at
// least once; consumers deduplicate on the message ID.
type EventPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}
