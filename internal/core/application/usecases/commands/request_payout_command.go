package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

// RequestPayoutCommand batches a driver's pending earnings into one payout.
type RequestPayoutCommand struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRequestPayoutCommand(driverID kernel.UUID) (RequestPayoutCommand, error) {
	if err := driverID.Validate(); err != nil {
		return RequestPayoutCommand{}, err
	}
	return RequestPayoutCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) DriverID() kernel.UUID {
	return c.driverID
}
