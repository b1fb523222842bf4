package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

const maxReasonLength = 500

// Order is the aggregate root of one delivery. It owns the fulfillment state
// machine and the driver assignment.
//
// Order follows these invariants:
//   - driverID is set if and only if the status is Assigned, PickedUp,
//     OutForDelivery or Delivered
//   - total and delivery fee share one currency and are never negative
//   - a new driver can claim the order only after reject cleared the previous one
//   - the proof-of-delivery code is only ever held hashed
//
// version is the optimistic concurrency token read from storage. Repositories
// compare it on write and bump it; the aggregate never changes it.
type Order struct {
	id       kernel.UUID
	status   Status
	driverID *kernel.UUID

	pickup  kernel.GeoPoint
	dropoff kernel.GeoPoint

	total        kernel.Money
	deliveryFee  kernel.Money
	deliveryCode kernel.DeliveryCode

	expectedDeliveryAt *time.Time
	deliveredAt        *time.Time
	cancelledAt        *time.Time
	cancelledBy        *kernel.UUID
	cancelReason       string
	lastRejectReason   string

	version   int64
	createdAt time.Time

	events        kernel.EventRecorder
	isConstructed bool
}

// NewOrder registers a confirmed basket as an order awaiting a driver.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(43.2389, 76.8897)
//	dropoff, _ := kernel.NewGeoPoint(43.2567, 76.9286)
//	total, _ := kernel.NewMoney(12500, "USD")
//	fee, _ := kernel.NewMoney(1000, "USD")
//	code, _ := kernel.NewDeliveryCode("4821")
//	o, err := order.NewOrder(kernel.NewUUID(), pickup, dropoff, total, fee, code, time.Now())
func NewOrder(
	id kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
	total, deliveryFee kernel.Money,
	code kernel.DeliveryCode,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        AwaitingDriver,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPickup(pickup),
		o.setDropoff(dropoff),
		o.setAmounts(total, deliveryFee),
		o.setDeliveryCode(code),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries a persisted order back into the domain.
type RestoreParams struct {
	ID                 kernel.UUID
	Status             Status
	DriverID           *kernel.UUID
	Pickup             kernel.GeoPoint
	Dropoff            kernel.GeoPoint
	Total              kernel.Money
	DeliveryFee        kernel.Money
	DeliveryCode       kernel.DeliveryCode
	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancelledBy        *kernel.UUID
	CancelReason       string
	LastRejectReason   string
	Version            int64
	CreatedAt          time.Time
}

// RestoreOrder rebuilds an order read from storage and re-checks the
// status/driver invariant, so a corrupt row fails loudly on load.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		status:             p.Status,
		expectedDeliveryAt: p.ExpectedDeliveryAt,
		deliveredAt:        p.DeliveredAt,
		cancelledAt:        p.CancelledAt,
		cancelledBy:        p.CancelledBy,
		cancelReason:       p.CancelReason,
		lastRejectReason:   p.LastRejectReason,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		p.Status.Validate(),
		p.Status.ValidateCanHaveDriver(p.DriverID != nil),
		o.setPickup(p.Pickup),
		o.setDropoff(p.Dropoff),
		o.setAmounts(p.Total, p.DeliveryFee),
		o.setDeliveryCode(p.DeliveryCode),
	); err != nil {
		return nil, err
	}

	if p.DriverID != nil {
		if err := p.DriverID.Validate(); err != nil {
			return nil, err
		}
		driverID := *p.DriverID
		o.driverID = &driverID
	}

	if p.Version < 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", p.Version, 0, "max int64")
	}

	return o, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

// Driver returns the assigned driver, nil while awaiting one or after cancel.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

func (o *Order) PickupPoint() kernel.GeoPoint {
	return o.pickup
}

func (o *Order) DropoffPoint() kernel.GeoPoint {
	return o.dropoff
}

func (o *Order) Total() kernel.Money {
	return o.total
}

// DeliveryFee is the gross amount the driver's earning is computed from.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) DeliveryCode() kernel.DeliveryCode {
	return o.deliveryCode
}

func (o *Order) ExpectedDeliveryAt() *time.Time {
	return o.expectedDeliveryAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

func (o *Order) CancelledBy() *kernel.UUID {
	return o.cancelledBy
}

func (o *Order) CancelReason() string {
	return o.cancelReason
}

func (o *Order) LastRejectReason() string {
	return o.lastRejectReason
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DomainEvents returns events raised since the order was loaded.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return o.events.DomainEvents()
}

func (o *Order) ClearDomainEvents() {
	o.events.ClearDomainEvents()
}

// Accept assigns the order to driverID. Storage must still confirm the claim
// with a conditional write, since two drivers can pass this check at once.
func (o *Order) Accept(driverID kernel.UUID, expectedDeliveryAt, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Accept()
	if err != nil {
		return err
	}

	eta := expectedDeliveryAt.UTC()
	o.status = next
	o.driverID = &driverID
	o.expectedDeliveryAt = &eta
	o.lastRejectReason = ""

	o.record(EventAccepted, now, "")
	return nil
}

// Reject hands the order back to the pool. The driver is cleared, so any
// driver, including this one, may claim it again on their next poll.
func (o *Order) Reject(driverID kernel.UUID, reason string, now time.Time) error {
	next, err := o.status.Reject()
	if err != nil {
		return err
	}
	if err = o.checkAssignedTo(driverID); err != nil {
		return err
	}
	if reason, err = normalizeReason(reason); err != nil {
		return err
	}

	o.status = next
	o.driverID = nil
	o.expectedDeliveryAt = nil
	o.lastRejectReason = reason

	o.record(EventReassignmentAvailable, now, reason)
	return nil
}

// Pickup records that the driver collected the order from the vendor.
func (o *Order) Pickup(driverID kernel.UUID, now time.Time) error {
	next, err := o.status.Pickup()
	if err != nil {
		return err
	}
	if err = o.checkAssignedTo(driverID); err != nil {
		return err
	}

	o.status = next
	o.record(EventPickedUp, now, "")
	return nil
}

// StartDelivery records that the driver left for the drop-off.
func (o *Order) StartDelivery(driverID kernel.UUID, now time.Time) error {
	next, err := o.status.StartDelivery()
	if err != nil {
		return err
	}
	if err = o.checkAssignedTo(driverID); err != nil {
		return err
	}

	o.status = next
	o.record(EventOutForDelivery, now, "")
	return nil
}

// Deliver completes the order when code matches the customer's delivery
// code. A wrong code returns ValueIsInvalidError and leaves the order as is.
func (o *Order) Deliver(driverID kernel.UUID, code string, now time.Time) error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}
	if err = o.checkAssignedTo(driverID); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return errs.NewValueIsRequiredError("delivery code")
	}
	ok, err := o.deliveryCode.Matches(code)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery code", errors.New("code does not match"))
	}

	at := now.UTC()
	o.status = next
	o.deliveredAt = &at

	o.record(EventDelivered, now, "")
	return nil
}

// Cancel ends the order without accrual. The driver reference moves to
// cancelledBy so the status/driver invariant keeps holding.
func (o *Order) Cancel(driverID kernel.UUID, reason string, now time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	if err = o.checkAssignedTo(driverID); err != nil {
		return err
	}
	if reason, err = normalizeReason(reason); err != nil {
		return err
	}

	at := now.UTC()
	by := driverID
	o.status = next
	o.driverID = nil
	o.cancelledAt = &at
	o.cancelledBy = &by
	o.cancelReason = reason

	// record after the driver is cleared, with the cancelling driver kept in the payload
	o.events.Record(newStatusChangedEvent(o, EventCancelled, now, &by, reason))
	return nil
}

func (o *Order) checkAssignedTo(driverID kernel.UUID) error {
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewUnauthorizedError(fmt.Sprintf("driver %s", driverID), "is not assigned to this order")
	}
	return nil
}

func (o *Order) record(name string, now time.Time, reason string) {
	o.events.Record(newStatusChangedEvent(o, name, now, o.driverID, reason))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPickup(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.pickup = p
	return nil
}

func (o *Order) setDropoff(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.dropoff = p
	return nil
}

func (o *Order) setAmounts(total, fee kernel.Money) error {
	if err := errors.Join(total.Validate(), fee.Validate()); err != nil {
		return err
	}
	if total.Currency() != fee.Currency() {
		return kernel.NewCurrencyMismatchError(total.Currency(), fee.Currency())
	}
	if total.IsNegative() || fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", errors.New("order amounts must not be negative"))
	}

	o.total = total
	o.deliveryFee = fee
	return nil
}

func (o *Order) setDeliveryCode(code kernel.DeliveryCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.deliveryCode = code
	return nil
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", errs.NewValueIsRequiredError("reason")
	}
	if len(reason) > maxReasonLength {
		return "", errs.NewValueIsOutOfRangeError("reason length", len(reason), 1, maxReasonLength)
	}
	return reason, nil
}
