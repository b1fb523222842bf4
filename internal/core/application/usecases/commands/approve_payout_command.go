package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrApprovePayoutCommandIsNotConstructed = errors.New(
	"ApprovePayoutCommand must be created via NewApprovePayoutCommand constructor",
)

// ApprovePayoutCommand records that money for a driver's pending earnings
// left the company. Reference is the bank or processor transfer id.
type ApprovePayoutCommand struct {
	driverID  kernel.UUID
	reference string

	guard guard.ConstructorGuard
}

func NewApprovePayoutCommand(driverID kernel.UUID, reference string) (ApprovePayoutCommand, error) {
	var refErr error
	reference = strings.TrimSpace(reference)
	if reference == "" {
		refErr = errs.NewValueIsRequiredError("reference")
	}

	if err := errors.Join(driverID.Validate(), refErr); err != nil {
		return ApprovePayoutCommand{}, err
	}

	return ApprovePayoutCommand{
		driverID:  driverID,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ApprovePayoutCommand) Validate() error {
	return c.guard.Validate(ErrApprovePayoutCommandIsNotConstructed)
}

func (c ApprovePayoutCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c ApprovePayoutCommand) Reference() string {
	return c.reference
}
