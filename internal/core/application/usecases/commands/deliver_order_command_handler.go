package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// DeliverOrderCommandHandler marks the order delivered and accrues the
// driver's earning in the same transaction. The earning is written only if
// none exists for the order yet, so a replayed delivery never accrues twice.
type DeliverOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	zones      ports.ZoneConfigProvider
	accrual    services.EarningsAccrual
}

func NewDeliverOrderCommandHandler(uowFactory FulfillmentUoWFactory, zones ports.ZoneConfigProvider) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		zones:      zones,
		accrual:    services.NewEarningsAccrual(),
	}
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cfg, err := h.zones.Current(ctx)
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

	// Driver first, then order: the same lock order as accept and payouts.
	if _, err = uow.DriverRepository().GetForUpdate(ctx, cmd.DriverID()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	earningRepo := uow.EarningRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	if err = o.Deliver(cmd.DriverID(), cmd.DeliveryCode(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	accrued, err := earningRepo.ExistsForOrder(ctx, o.ID())
	if err != nil {
		return err
	}

	if !accrued {
		e, err := h.accrual.Accrue(o, cfg.CommissionRate(), now)
		if err != nil {
			return err
		}
		if err = earningRepo.Add(ctx, e); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
