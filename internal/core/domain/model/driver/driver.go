package driver

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrDriverIsNotConstructed is returned when a Driver was not created
	// through NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
)

const (
	maxNameLength       = 100
	maxVehicleRefLength = 64
)

// Driver is a courier account bound one to one to a user of the identity
// service. Only a verified driver who is online may claim orders.
type Driver struct {
	id         kernel.UUID
	userID     kernel.UUID
	name       string
	vehicleRef string
	isOnline   bool
	isVerified bool

	isConstructed bool
}

// NewDriver registers a driver. New drivers start offline.
func NewDriver(id, userID kernel.UUID, name, vehicleRef string, verified bool) (*Driver, error) {
	d := &Driver{isVerified: verified, isConstructed: true}

	if err := errors.Join(
		d.setID(id),
		d.setUserID(userID),
		d.setName(name),
		d.setVehicleRef(vehicleRef),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver rebuilds a driver read from storage.
func RestoreDriver(id, userID kernel.UUID, name, vehicleRef string, online, verified bool) (*Driver, error) {
	d, err := NewDriver(id, userID, name, vehicleRef, verified)
	if err != nil {
		return nil, err
	}
	d.isOnline = online
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) UserID() kernel.UUID {
	return d.userID
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) VehicleRef() string {
	return d.vehicleRef
}

func (d *Driver) IsOnline() bool {
	return d.isOnline
}

func (d *Driver) IsVerified() bool {
	return d.isVerified
}

// SetAvailability toggles the online flag. Unverified drivers may not go online.
func (d *Driver) SetAvailability(online bool) error {
	if online && !d.isVerified {
		return errs.NewUnauthorizedError("driver "+d.id.String(), "is not verified")
	}
	d.isOnline = online
	return nil
}

// Verify marks the driver as having passed onboarding checks.
func (d *Driver) Verify() {
	d.isVerified = true
}

// CanAcceptOrders checks the flags required to claim an order. Whether the
// driver already holds an active order is checked against storage.
func (d *Driver) CanAcceptOrders() error {
	switch {
	case !d.isVerified:
		return errs.NewUnauthorizedError("driver "+d.id.String(), "is not verified")
	case !d.isOnline:
		return errs.NewUnauthorizedError("driver "+d.id.String(), "is offline")
	default:
		return nil
	}
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user id", err)
	}
	d.userID = userID
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, maxNameLength)
	}
	d.name = name
	return nil
}

func (d *Driver) setVehicleRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if len(ref) > maxVehicleRefLength {
		return errs.NewValueIsOutOfRangeError("vehicle ref length", len(ref), 0, maxVehicleRefLength)
	}
	d.vehicleRef = ref
	return nil
}
