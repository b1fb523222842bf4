package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand completes an order with the code the customer reads
// out at the door.
type DeliverOrderCommand struct {
	orderRef
	deliveryCode string

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(orderID, driverID kernel.UUID, deliveryCode string) (DeliverOrderCommand, error) {
	ref, refErr := newOrderRef(orderID, driverID)

	var codeErr error
	deliveryCode = strings.TrimSpace(deliveryCode)
	if deliveryCode == "" {
		codeErr = errs.NewValueIsRequiredError("deliveryCode")
	}

	if err := errors.Join(refErr, codeErr); err != nil {
		return DeliverOrderCommand{}, err
	}

	return DeliverOrderCommand{
		orderRef:     ref,
		deliveryCode: deliveryCode,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c DeliverOrderCommand) DeliveryCode() string {
	return c.deliveryCode
}
