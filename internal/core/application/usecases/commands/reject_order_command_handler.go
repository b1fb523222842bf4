package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// RejectOrderCommandHandler returns the order to the pool. Other drivers see
// it again on their next availability poll; an
// order.reassignment_available event is written to the outbox as well.
type RejectOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRejectOrderCommandHandler(uowFactory OrderUoWFactory) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{uowFactory: uowFactory}
}

func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runOrderTransition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Reject(cmd.DriverID(), cmd.Reason(), time.Now())
	})
}
