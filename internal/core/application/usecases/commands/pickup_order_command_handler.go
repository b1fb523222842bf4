package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type PickupOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewPickupOrderCommandHandler(uowFactory OrderUoWFactory) PickupOrderCommandHandler {
	return PickupOrderCommandHandler{uowFactory: uowFactory}
}

func (h PickupOrderCommandHandler) Handle(ctx context.Context, cmd PickupOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runOrderTransition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Pickup(cmd.DriverID(), time.Now())
	})
}
