package earning

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrEarningIsNotConstructed is returned when an Earning was not created
	// through NewEarning or RestoreEarning.
	ErrEarningIsNotConstructed = errors.New("Earning must be created via NewEarning or RestoreEarning constructor")

	// ErrNetMismatch means a stored row breaks net == gross - commission.
	ErrNetMismatch = errors.New("net amount does not equal gross minus commission")
)

const (
	actionAttach   = "attach to payout"
	actionMarkPaid = "mark paid"
)

// Earning is what a driver is owed for one delivered order.
//
// Invariants:
//   - net == gross - commission, all in one currency, none negative
//   - commission never exceeds gross
//   - a PAID earning references its payout and never changes again
type Earning struct {
	id         kernel.UUID
	driverID   kernel.UUID
	orderID    kernel.UUID
	gross      kernel.Money
	commission kernel.Money
	net        kernel.Money
	status     Status
	payoutID   *kernel.UUID
	createdAt  time.Time
	paidAt     *time.Time

	isConstructed bool
}

// NewEarning records a PENDING earning. net is derived from gross and the
// already rounded commission.
func NewEarning(id, driverID, orderID kernel.UUID, gross, commission kernel.Money, createdAt time.Time) (*Earning, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if err := errors.Join(gross.Validate(), commission.Validate()); err != nil {
		return nil, err
	}

	net, err := gross.Sub(commission)
	if err != nil {
		return nil, err
	}
	if gross.IsNegative() || commission.IsNegative() || net.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("commission",
			fmt.Errorf("commission %s must be within gross %s", commission, gross))
	}

	return &Earning{
		id:            id,
		driverID:      driverID,
		orderID:       orderID,
		gross:         gross,
		commission:    commission,
		net:           net,
		status:        Pending,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreParams carries a persisted earning back into the domain.
type RestoreParams struct {
	ID         kernel.UUID
	DriverID   kernel.UUID
	OrderID    kernel.UUID
	Gross      kernel.Money
	Commission kernel.Money
	Net        kernel.Money
	Status     Status
	PayoutID   *kernel.UUID
	CreatedAt  time.Time
	PaidAt     *time.Time
}

// RestoreEarning rebuilds a stored earning and re-checks the ledger
// invariants, so a tampered row is never paid out.
func RestoreEarning(p RestoreParams) (*Earning, error) {
	e, err := NewEarning(p.ID, p.DriverID, p.OrderID, p.Gross, p.Commission, p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = p.Net.Validate(); err != nil {
		return nil, err
	}
	if !e.net.IsEqual(p.Net) {
		return nil, fmt.Errorf("%w: earning %s has net %s, expected %s", ErrNetMismatch, p.ID, p.Net, e.net)
	}
	if err = p.Status.Validate(); err != nil {
		return nil, err
	}
	if p.Status == Paid && (p.PayoutID == nil || p.PaidAt == nil) {
		return nil, errs.NewValueIsRequiredError("payout id and paid at of a paid earning")
	}

	e.status = p.Status
	e.payoutID = p.PayoutID
	e.paidAt = p.PaidAt
	return e, nil
}

func (e *Earning) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEarningIsNotConstructed
	}
	return nil
}

func (e *Earning) ID() kernel.UUID {
	return e.id
}

func (e *Earning) DriverID() kernel.UUID {
	return e.driverID
}

func (e *Earning) OrderID() kernel.UUID {
	return e.orderID
}

func (e *Earning) Gross() kernel.Money {
	return e.gross
}

func (e *Earning) Commission() kernel.Money {
	return e.commission
}

func (e *Earning) Net() kernel.Money {
	return e.net
}

func (e *Earning) Status() Status {
	return e.status
}

// PayoutID is set once the earning was batched into a payout.
func (e *Earning) PayoutID() *kernel.UUID {
	return e.payoutID
}

func (e *Earning) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Earning) PaidAt() *time.Time {
	return e.paidAt
}

// AttachToPayout batches a pending earning into payoutID. Re-attaching to the
// same payout is a no-op; moving it to another payout is a conflict.
func (e *Earning) AttachToPayout(payoutID kernel.UUID) error {
	if err := payoutID.Validate(); err != nil {
		return err
	}
	if e.status != Pending {
		return errs.NewInvalidTransitionError(actionAttach, e.status.String())
	}
	if e.payoutID != nil && !e.payoutID.IsEqual(payoutID) {
		return errs.NewConflictError("earning", fmt.Sprintf("already batched into payout %s", e.payoutID))
	}

	e.payoutID = &payoutID
	return nil
}

// MarkPaid settles the earning as part of payoutID.
func (e *Earning) MarkPaid(payoutID kernel.UUID, at time.Time) error {
	if err := e.AttachToPayout(payoutID); err != nil {
		if e.status == Paid {
			return errs.NewInvalidTransitionError(actionMarkPaid, e.status.String())
		}
		return err
	}

	paidAt := at.UTC()
	e.status = Paid
	e.paidAt = &paidAt
	return nil
}
