// Package kafka consumes checkout events and turns them into orders.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/IBM/sarama"
)

type registerOrderHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterOrderCommand) error
}

// NewConsumerGroup joins groupID, starting from the oldest offset the first
// time the group sees a partition.
func NewConsumerGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Return.Errors = true

	return sarama.NewConsumerGroup(brokers, groupID, cfg)
}

// BasketConfirmedConsumer registers an order for every confirmed basket.
//
// A message that can never become an order (bad JSON, invalid amounts) is
// logged and committed. Any other failure leaves the offset in place so the
// message is redelivered after the next rebalance.
type BasketConfirmedConsumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler registerOrderHandler
	logger  *slog.Logger
}

func NewBasketConfirmedConsumer(
	group sarama.ConsumerGroup,
	topic string,
	handler registerOrderHandler,
	logger *slog.Logger,
) *BasketConfirmedConsumer {
	return &BasketConfirmedConsumer{
		group:   group,
		topic:   topic,
		handler: handler,
		logger:  logger.With("component", "basket_confirmed_consumer", "topic", topic),
	}
}

// Run consumes until ctx is cancelled or the group is closed.
func (c *BasketConfirmedConsumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("consumer group error", "error", err)
		}
	}()

	for {
		err := c.group.Consume(ctx, []string{c.topic}, c)
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return nil
		case err != nil:
			c.logger.Error("consume failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *BasketConfirmedConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *BasketConfirmedConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *BasketConfirmedConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := c.handle(session.Context(), msg); err != nil {
				return err
			}
			session.MarkMessage(msg, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (c *BasketConfirmedConsumer) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	logger := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

	cmd, err := decodeBasketConfirmed(msg.Value)
	if err != nil {
		logger.Warn("dropping malformed basket confirmation", "error", err)
		return nil
	}

	err = c.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		logger.Info("order registered", "order_id", cmd.OrderID().String())
		return nil
	case isPermanent(err):
		logger.Warn("dropping rejected basket confirmation", "order_id", cmd.OrderID().String(), "error", err)
		return nil
	default:
		logger.Error("register order failed", "order_id", cmd.OrderID().String(), "error", err)
		return err
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
