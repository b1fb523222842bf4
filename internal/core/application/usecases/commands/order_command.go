package commands

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// orderRef is embedded by every command a driver issues against one order.
type orderRef struct {
	orderID  kernel.UUID
	driverID kernel.UUID
}

func newOrderRef(orderID, driverID kernel.UUID) (orderRef, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return orderRef{}, err
	}
	return orderRef{orderID: orderID, driverID: driverID}, nil
}

func (r orderRef) OrderID() kernel.UUID {
	return r.orderID
}

func (r orderRef) DriverID() kernel.UUID {
	return r.driverID
}

func requireReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", errs.NewValueIsRequiredError("reason")
	}
	return reason, nil
}

// runOrderTransition loads the order, applies transition and writes it back
// with the version check, all in one transaction.
func runOrderTransition(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	transition func(o *order.Order) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if err = transition(o); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
