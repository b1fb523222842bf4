package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrPayoutIsNotConstructed is returned when a Payout was not created
	// through NewPayout or RestorePayout.
	ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout or RestorePayout constructor")
)

const (
	EventProcessed = "payout.processed"

	maxReferenceLength = 128
)

type Status int

const (
	Unknown Status = iota
	Pending
	Paid
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Paid:
		return "PAID"
	default:
		return "UNKNOWN"
	}
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "PENDING":
		return Pending, nil
	case "PAID":
		return Paid, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("payout status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Payout is one transfer to a driver. amount always equals the sum of the
// net amounts of the earnings that reference it.
type Payout struct {
	id        kernel.UUID
	driverID  kernel.UUID
	amount    kernel.Money
	status    Status
	reference string
	paidAt    *time.Time
	createdAt time.Time

	events        kernel.EventRecorder
	isConstructed bool
}

// NewPayout opens a PENDING payout for amount.
func NewPayout(id, driverID kernel.UUID, amount kernel.Money, createdAt time.Time) (*Payout, error) {
	p := &Payout{status: Pending, createdAt: createdAt.UTC(), isConstructed: true}

	if err := errors.Join(id.Validate(), driverID.Validate(), p.setAmount(amount)); err != nil {
		return nil, err
	}
	p.id = id
	p.driverID = driverID

	return p, nil
}

func RestorePayout(
	id, driverID kernel.UUID,
	amount kernel.Money,
	status Status,
	reference string,
	paidAt *time.Time,
	createdAt time.Time,
) (*Payout, error) {
	p, err := NewPayout(id, driverID, amount, createdAt)
	if err != nil {
		return nil, err
	}

	switch status {
	case Pending:
	case Paid:
		if reference == "" || paidAt == nil {
			return nil, errs.NewValueIsRequiredError("reference and paid at of a paid payout")
		}
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("payout status", fmt.Errorf("%d is not a valid status", status))
	}

	p.status = status
	p.reference = reference
	p.paidAt = paidAt
	return p, nil
}

func (p *Payout) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPayoutIsNotConstructed
	}
	return nil
}

func (p *Payout) ID() kernel.UUID {
	return p.id
}

func (p *Payout) DriverID() kernel.UUID {
	return p.driverID
}

func (p *Payout) Amount() kernel.Money {
	return p.amount
}

func (p *Payout) Status() Status {
	return p.status
}

func (p *Payout) Reference() string {
	return p.reference
}

func (p *Payout) PaidAt() *time.Time {
	return p.paidAt
}

func (p *Payout) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payout) DomainEvents() []kernel.DomainEvent {
	return p.events.DomainEvents()
}

func (p *Payout) ClearDomainEvents() {
	p.events.ClearDomainEvents()
}

// Settle marks the payout PAID. amount is the total recomputed from the
// earnings locked for this approval and replaces whatever was requested.
func (p *Payout) Settle(amount kernel.Money, reference string, at time.Time) error {
	if p.status != Pending {
		return errs.NewInvalidTransitionError("settle payout", p.status.String())
	}

	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	if len(reference) > maxReferenceLength {
		return errs.NewValueIsOutOfRangeError("reference length", len(reference), 1, maxReferenceLength)
	}
	if err := p.setAmount(amount); err != nil {
		return err
	}

	paidAt := at.UTC()
	p.status = Paid
	p.reference = reference
	p.paidAt = &paidAt

	p.events.Record(ProcessedEvent{
		BaseEvent: kernel.NewBaseEvent(EventProcessed, p.id, at),
		PayoutID:  p.id.String(),
		DriverID:  p.driverID.String(),
		Amount:    p.amount.Amount(),
		Decimal:   p.amount.Decimal(),
		Currency:  p.amount.Currency(),
		Reference: reference,
		PaidAt:    paidAt,
	})
	return nil
}

func (p *Payout) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("payout amount", fmt.Errorf("%s is negative", amount))
	}
	if p.isConstructed && p.amount.Validate() == nil && p.amount.Currency() != amount.Currency() {
		return kernel.NewCurrencyMismatchError(p.amount.Currency(), amount.Currency())
	}
	p.amount = amount
	return nil
}

// ProcessedEvent tells the driver notification channel that money was sent.
type ProcessedEvent struct {
	kernel.BaseEvent

	PayoutID  string    `json:"payout_id"`
	DriverID  string    `json:"driver_id"`
	Amount    int64     `json:"amount_minor"`
	Decimal   string    `json:"amount"`
	Currency  string    `json:"currency"`
	Reference string    `json:"reference"`
	PaidAt    time.Time `json:"paid_at"`
}
