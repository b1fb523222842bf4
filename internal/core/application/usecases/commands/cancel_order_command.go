package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand ends an assigned order without delivery. Nothing is
// accrued; refunds react to the order.cancelled event.
type CancelOrderCommand struct {
	orderRef
	reason string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID, driverID kernel.UUID, reason string) (CancelOrderCommand, error) {
	ref, refErr := newOrderRef(orderID, driverID)
	reason, reasonErr := requireReason(reason)
	if err := errors.Join(refErr, reasonErr); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderRef: ref, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
