package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewStartDeliveryCommandHandler(uowFactory OrderUoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{uowFactory: uowFactory}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return runOrderTransition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.StartDelivery(cmd.DriverID(), time.Now())
	})
}
