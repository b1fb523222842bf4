package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand hands an assigned order back so another driver can
// claim it.
type RejectOrderCommand struct {
	orderRef
	reason string

	guard guard.ConstructorGuard
}

func NewRejectOrderCommand(orderID, driverID kernel.UUID, reason string) (RejectOrderCommand, error) {
	ref, refErr := newOrderRef(orderID, driverID)
	reason, reasonErr := requireReason(reason)
	if err := errors.Join(refErr, reasonErr); err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{orderRef: ref, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) Reason() string {
	return c.reason
}
