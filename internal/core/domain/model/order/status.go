package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state of an order.
//
// State transitions:
//
//	AwaitingDriver --accept--> Assigned --pickup--> PickedUp --start--> OutForDelivery --deliver--> Delivered
//	      ^                       |                    |                      |
//	      +-------reject----------+                    |                      |
//	                              +-------------------cancel------------------+--> Cancelled
//
// Delivered and Cancelled are terminal. Any edge not drawn above fails with
// errs.InvalidTransitionError, never a silent no-op.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota

	// AwaitingDriver orders are visible to nearby drivers and may be claimed.
	AwaitingDriver

	// Assigned orders are held by a driver who has not picked them up yet.
	Assigned

	PickedUp
	OutForDelivery

	// Delivered is terminal. Reaching it accrues the driver's earning.
	Delivered

	// Cancelled is terminal and accrues nothing.
	Cancelled
)

// Action names used in InvalidTransitionError and logs.
const (
	ActionAccept        = "accept"
	ActionReject        = "reject"
	ActionPickup        = "pickup"
	ActionStartDelivery = "start_delivery"
	ActionDeliver       = "deliver"
	ActionCancel        = "cancel"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		AwaitingDriver: "AWAITING_DRIVER",
		Assigned:       "ASSIGNED",
		PickedUp:       "PICKED_UP",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// ActiveStatuses lists the states in which an order occupies its driver.
// A driver holds at most one order in these states.
func ActiveStatuses() []Status {
	return []Status{Assigned, PickedUp, OutForDelivery}
}

// ParseStatus reads the persisted representation back, e.g. "PICKED_UP".
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted form. It is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsActive reports whether the order currently occupies its driver.
func (s Status) IsActive() bool {
	return s == Assigned || s == PickedUp || s == OutForDelivery
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveDriver checks that a driver is present exactly when the
// status is Assigned, PickedUp, OutForDelivery or Delivered.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	requiresDriver := s.IsActive() || s == Delivered

	if hasDriver && !requiresDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to have a driver", s))
	}
	if !hasDriver && requiresDriver {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%s is not a valid status to have no driver", s))
	}

	return nil
}

// Accept moves AwaitingDriver to Assigned. An order some driver already
// holds yields a ConflictError, the signal that a concurrent claim won.
func (s Status) Accept() (Status, error) {
	switch {
	case s == AwaitingDriver:
		return Assigned, nil
	case s.IsActive():
		return Unknown, errs.NewConflictError("order", "already claimed")
	default:
		return Unknown, errs.NewInvalidTransitionError(ActionAccept, s.String())
	}
}

// Reject moves Assigned back to AwaitingDriver.
func (s Status) Reject() (Status, error) {
	return s.transition(ActionReject, AwaitingDriver, Assigned)
}

// Pickup moves Assigned to PickedUp.
func (s Status) Pickup() (Status, error) {
	return s.transition(ActionPickup, PickedUp, Assigned)
}

// StartDelivery moves PickedUp to OutForDelivery.
func (s Status) StartDelivery() (Status, error) {
	return s.transition(ActionStartDelivery, OutForDelivery, PickedUp)
}

// Deliver moves OutForDelivery to Delivered.
func (s Status) Deliver() (Status, error) {
	return s.transition(ActionDeliver, Delivered, OutForDelivery)
}

// Cancel is allowed from every assigned, non-terminal state.
func (s Status) Cancel() (Status, error) {
	return s.transition(ActionCancel, Cancelled, ActiveStatuses()...)
}

func (s Status) transition(action string, to Status, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return to, nil
		}
	}
	return Unknown, errs.NewInvalidTransitionError(action, s.String())
}
