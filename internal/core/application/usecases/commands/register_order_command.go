package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterOrderCommandIsNotConstructed = errors.New(
	"RegisterOrderCommand must be created via NewRegisterOrderCommand constructor",
)

// RegisterOrderCommand brings a basket confirmed by checkout into the
// engine as an order awaiting a driver.
//
// Example:
//
//	cmd, err := NewRegisterOrderCommand(basketID, pickup, dropoff, total, fee, "4821")
//	if err != nil {
//	    return fmt.Errorf("invalid basket: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type RegisterOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	pickup       kernel.GeoPoint
	dropoff      kernel.GeoPoint
	total        kernel.Money
	deliveryFee  kernel.Money
	deliveryCode string

	guard guard.ConstructorGuard
}

func NewRegisterOrderCommand(
	orderID kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
	total, deliveryFee kernel.Money,
	deliveryCode string,
) (RegisterOrderCommand, error) {
	cmd := RegisterOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRoute(pickup, dropoff),
		cmd.setAmounts(total, deliveryFee),
		cmd.setDeliveryCode(deliveryCode),
	); err != nil {
		return RegisterOrderCommand{}, err
	}

	return cmd, nil
}

func (c RegisterOrderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterOrderCommandIsNotConstructed)
}

func (c RegisterOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RegisterOrderCommand) Pickup() kernel.GeoPoint {
	return c.pickup
}

func (c RegisterOrderCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

func (c RegisterOrderCommand) Total() kernel.Money {
	return c.total
}

func (c RegisterOrderCommand) DeliveryFee() kernel.Money {
	return c.deliveryFee
}

// DeliveryCode is the plain code; the handler hashes it before storing.
func (c RegisterOrderCommand) DeliveryCode() string {
	return c.deliveryCode
}

func (c *RegisterOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RegisterOrderCommand) setRoute(pickup, dropoff kernel.GeoPoint) error {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return err
	}
	c.pickup = pickup
	c.dropoff = dropoff
	return nil
}

func (c *RegisterOrderCommand) setAmounts(total, fee kernel.Money) error {
	if err := errors.Join(total.Validate(), fee.Validate()); err != nil {
		return err
	}
	c.total = total
	c.deliveryFee = fee
	return nil
}

func (c *RegisterOrderCommand) setDeliveryCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}
	c.deliveryCode = code
	return nil
}
