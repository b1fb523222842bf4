// Package rabbitmq hands driver-facing notifications to the dispatcher over a
// topic exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublishNotConfirmed = errors.New("broker did not confirm the notification")

// notifiable maps event names to routing keys. Everything else stays on
// the Kafka stream only.
func notifiable() map[string]string {
	return map[string]string{
		order.EventReassignmentAvailable: "notify.order.reassignment_available",
		order.EventCancelled:             "notify.order.cancelled",
		payout.EventProcessed:            "notify.payout.processed",
	}
}

// RoutingKey returns the routing key for eventName and whether the event is
// a notification at all.
func RoutingKey(eventName string) (string, bool) {
	key, ok := notifiable()[eventName]
	return key, ok
}

type channel interface {
	PublishWithDeferredConfirmWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) (*amqp.DeferredConfirmation, error)
}

// NotificationPublisher publishes the notification subset of outbox
// messages. Other messages are accepted and dropped.
type NotificationPublisher struct {
	ch       channel
	exchange string
}

func NewNotificationPublisher(ch channel, exchange string) (*NotificationPublisher, error) {
	if ch == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}
	return &NotificationPublisher{ch: ch, exchange: exchange}, nil
}

var _ ports.EventPublisher = (*NotificationPublisher)(nil)

func (p *NotificationPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	key, ok := RoutingKey(msg.EventName)
	if !ok {
		return nil
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Type:         msg.EventName,
		Timestamp:    msg.OccurredAt,
		Body:         msg.Payload,
	})
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("notify "+msg.EventName, err)
	}

	// nil when the channel is not in confirm mode.
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("notify "+msg.EventName, err)
	}
	if !acked {
		return errs.NewInfrastructureErrorWithCause("notify "+msg.EventName, ErrPublishNotConfirmed)
	}
	return nil
}

// Connection owns the AMQP connection and the confirm-mode channel the
// publisher writes to.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects, declares the durable topic exchange and puts the channel
// into confirm mode.
func Dial(url, exchange string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &Connection{conn: conn, ch: ch}, nil
}

func (c *Connection) Channel() *amqp.Channel {
	return c.ch
}

func (c *Connection) IsAlive() bool {
	return c.conn != nil && !c.conn.IsClosed() && c.ch != nil && !c.ch.IsClosed()
}

func (c *Connection) Close() error {
	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
