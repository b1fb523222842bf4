package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand binds a new driver profile to an existing user.
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	userID     kernel.UUID
	name       string
	vehicleRef string
	verified   bool

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(userID kernel.UUID, name, vehicleRef string, verified bool) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		vehicleRef: strings.TrimSpace(vehicleRef),
		verified:   verified,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(cmd.setUserID(userID), cmd.setName(name)); err != nil {
		return RegisterDriverCommand{}, err
	}

	return cmd, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) UserID() kernel.UUID {
	return c.userID
}

func (c RegisterDriverCommand) Name() string {
	return c.name
}

func (c RegisterDriverCommand) VehicleRef() string {
	return c.vehicleRef
}

func (c RegisterDriverCommand) Verified() bool {
	return c.verified
}

func (c *RegisterDriverCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *RegisterDriverCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
