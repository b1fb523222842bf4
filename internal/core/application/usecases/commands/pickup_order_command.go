package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrPickupOrderCommandIsNotConstructed = errors.New(
	"PickupOrderCommand must be created via NewPickupOrderCommand constructor",
)

type PickupOrderCommand struct {
	orderRef

	guard guard.ConstructorGuard
}

func NewPickupOrderCommand(orderID, driverID kernel.UUID) (PickupOrderCommand, error) {
	ref, err := newOrderRef(orderID, driverID)
	if err != nil {
		return PickupOrderCommand{}, err
	}
	return PickupOrderCommand{orderRef: ref, guard: guard.NewConstructorGuard()}, nil
}

func (c PickupOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickupOrderCommandIsNotConstructed)
}
