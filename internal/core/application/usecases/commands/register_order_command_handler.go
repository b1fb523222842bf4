package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RegisterOrderCommandHandler stores confirmed baskets as orders. Checkout
// events are delivered at least once, so an order that already exists is
// acknowledged without change. Orders priced in another currency than the
// zone's are rejected, since their earnings could never be paid out.
type RegisterOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	zones      ports.ZoneConfigProvider
}

func NewRegisterOrderCommandHandler(uowFactory OrderUoWFactory, zones ports.ZoneConfigProvider) RegisterOrderCommandHandler {
	return RegisterOrderCommandHandler{uowFactory: uowFactory, zones: zones}
}

func (h RegisterOrderCommandHandler) Handle(ctx context.Context, cmd RegisterOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cfg, err := h.zones.Current(ctx)
	if err != nil {
		return err
	}
	if cmd.DeliveryFee().Currency() != cfg.Currency() {
		return errs.NewValueIsInvalidErrorWithCause("order currency",
			fmt.Errorf("%s orders are not accepted in a %s zone", cmd.DeliveryFee().Currency(), cfg.Currency()))
	}

	code, err := kernel.NewDeliveryCode(cmd.DeliveryCode())
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Pickup(), cmd.Dropoff(), cmd.Total(), cmd.DeliveryFee(), code, time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	_, err = orderRepo.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
