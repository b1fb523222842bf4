package kafka

import (
	"context"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/IBM/sarama"
)

const (
	HeaderEventName = "event_name"
	HeaderEventID   = "event_id"
)

// EventPublisher writes outbox messages to one topic keyed by aggregate id,
// so every event of an order lands on the same partition in order.
type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventPublisher(producer sarama.SyncProducer, topic string) (*EventPublisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	return &EventPublisher{producer: producer, topic: topic}, nil
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

func (p *EventPublisher) Publish(_ context.Context, msg ports.OutboxMessage) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.AggregateID.String()),
		Value: sarama.ByteEncoder(msg.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderEventName), Value: []byte(msg.EventName)},
			{Key: []byte(HeaderEventID), Value: []byte(msg.ID.String())},
		},
		Timestamp: msg.OccurredAt,
	})
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("publish "+msg.EventName, err)
	}
	return nil
}
