package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

type StartDeliveryCommand struct {
	orderRef

	guard guard.ConstructorGuard
}

func NewStartDeliveryCommand(orderID, driverID kernel.UUID) (StartDeliveryCommand, error) {
	ref, err := newOrderRef(orderID, driverID)
	if err != nil {
		return StartDeliveryCommand{}, err
	}
	return StartDeliveryCommand{orderRef: ref, guard: guard.NewConstructorGuard()}, nil
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}
