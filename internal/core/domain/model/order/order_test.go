package order_test

import (
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCode = "4821"

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type fixture struct {
	pickup, dropoff kernel.GeoPoint
	total, fee      kernel.Money
	code            kernel.DeliveryCode
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(43.2389, 76.8897)
	require.NoError(t, err)
	dropoff, err := kernel.NewGeoPoint(43.2567, 76.9286)
	require.NoError(t, err)
	total, err := kernel.NewMoney(12500, "USD")
	require.NoError(t, err)
	fee, err := kernel.NewMoney(1000, "USD")
	require.NoError(t, err)
	code, err := kernel.NewDeliveryCode(testCode)
	require.NoError(t, err)

	return fixture{pickup: pickup, dropoff: dropoff, total: total, fee: fee, code: code}
}

func newAwaitingOrder(t *testing.T, f fixture) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), f.pickup, f.dropoff, f.total, f.fee, f.code, now)
	require.NoError(t, err)
	return o
}

// advance drives a fresh order to the requested status with driverID.
func advance(t *testing.T, o *order.Order, driverID kernel.UUID, to order.Status) {
	t.Helper()

	steps := []struct {
		status order.Status
		run    func() error
	}{
		{order.Assigned, func() error { return o.Accept(driverID, now.Add(30*time.Minute), now) }},
		{order.PickedUp, func() error { return o.Pickup(driverID, now) }},
		{order.OutForDelivery, func() error { return o.StartDelivery(driverID, now) }},
		{order.Delivered, func() error { return o.Deliver(driverID, testCode, now) }},
	}

	for _, step := range steps {
		if o.Status() == to {
			return
		}
		require.NoError(t, step.run())
	}
	require.Equal(t, to, o.Status())
}

func TestNewOrder(t *testing.T) {
	f := newFixture(t)

	t.Run("should create order awaiting a driver", func(t *testing.T) {
		id := kernel.NewUUID()
		o, err := order.NewOrder(id, f.pickup, f.dropoff, f.total, f.fee, f.code, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.AwaitingDriver, o.Status())
		assert.Nil(t, o.Driver())
		assert.True(t, o.DeliveryFee().IsEqual(f.fee))
		assert.Equal(t, int64(0), o.Version())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.GeoPoint{}, f.dropoff, f.total, f.fee, kernel.DeliveryCode{}, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "geo point must be created")
		assert.Contains(t, err.Error(), "delivery code must be created")
	})

	t.Run("should reject mixed currencies", func(t *testing.T) {
		eur, err := kernel.NewMoney(1000, "EUR")
		require.NoError(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), f.pickup, f.dropoff, f.total, eur, f.code, now)
		require.ErrorIs(t, err, kernel.ErrCurrencyMismatch)
	})

	t.Run("should reject negative fee", func(t *testing.T) {
		negative, err := kernel.NewMoney(-1, "USD")
		require.NoError(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), f.pickup, f.dropoff, f.total, negative, f.code, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero order is not valid", func(t *testing.T) {
		var o *order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
		require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Accept(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	t.Run("should assign driver and expected delivery", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		eta := now.Add(25 * time.Minute)

		require.NoError(t, o.Accept(driverID, eta, now))

		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
		require.NotNil(t, o.ExpectedDeliveryAt())
		assert.True(t, o.ExpectedDeliveryAt().Equal(eta))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventAccepted, events[0].EventName())
		assert.True(t, events[0].AggregateID().IsEqual(o.ID()))
	})

	t.Run("second driver loses with conflict", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		require.NoError(t, o.Accept(driverID, now, now))

		err := o.Accept(kernel.NewUUID(), now, now)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.True(t, o.Driver().IsEqual(driverID))
	})

	t.Run("delivered order cannot be accepted", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Delivered)

		require.ErrorIs(t, o.Accept(kernel.NewUUID(), now, now), errs.ErrInvalidTransition)
	})

	t.Run("should require a driver", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		require.ErrorIs(t, o.Accept(kernel.UUID{}, now, now), kernel.ErrUUIDIsNotConstructed)
		assert.Equal(t, order.AwaitingDriver, o.Status())
	})
}

func TestOrder_Reject(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	t.Run("should clear driver and return to pool", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)
		o.ClearDomainEvents()

		require.NoError(t, o.Reject(driverID, "vehicle broke down", now))

		assert.Equal(t, order.AwaitingDriver, o.Status())
		assert.Nil(t, o.Driver())
		assert.Nil(t, o.ExpectedDeliveryAt())
		assert.Equal(t, "vehicle broke down", o.LastRejectReason())

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventReassignmentAvailable, events[0].EventName())
	})

	t.Run("rejected order can be claimed by another driver", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)
		require.NoError(t, o.Reject(driverID, "too far", now))

		other := kernel.NewUUID()
		require.NoError(t, o.Accept(other, now, now))
		assert.True(t, o.Driver().IsEqual(other))
	})

	t.Run("should require a reason", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)

		require.ErrorIs(t, o.Reject(driverID, "   ", now), errs.ErrValueIsRequired)
		require.ErrorIs(t, o.Reject(driverID, strings.Repeat("x", 501), now), errs.ErrValueIsOutOfRange)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("only from assigned", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.PickedUp)

		require.ErrorIs(t, o.Reject(driverID, "late", now), errs.ErrInvalidTransition)
	})

	t.Run("edge is checked before the reason", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Delivered)

		err := o.Reject(driverID, "", now)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.NotErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("other driver is unauthorized", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)

		require.ErrorIs(t, o.Reject(kernel.NewUUID(), "late", now), errs.ErrUnauthorized)
		assert.True(t, o.Driver().IsEqual(driverID))
	})
}

func TestOrder_PickupAndStart(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	t.Run("happy path", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)

		require.NoError(t, o.Pickup(driverID, now))
		assert.Equal(t, order.PickedUp, o.Status())
		assert.Equal(t, f.pickup, o.PickupPoint())
		assert.Equal(t, f.dropoff, o.DropoffPoint())
		require.NoError(t, o.StartDelivery(driverID, now))
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("from wrong state reports the transition", func(t *testing.T) {
		o := newAwaitingOrder(t, f)

		err := o.Pickup(driverID, now)
		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, order.ActionPickup, transitionErr.Action)
		assert.Equal(t, "AWAITING_DRIVER", transitionErr.State)

		advance(t, o, driverID, order.Assigned)
		require.ErrorIs(t, o.StartDelivery(driverID, now), errs.ErrInvalidTransition)
	})

	t.Run("transition is checked before the driver", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.OutForDelivery)

		require.ErrorIs(t, o.Pickup(kernel.NewUUID(), now), errs.ErrInvalidTransition)
	})

	t.Run("only the assigned driver", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)

		require.ErrorIs(t, o.Pickup(kernel.NewUUID(), now), errs.ErrUnauthorized)
		assert.Equal(t, order.Assigned, o.Status())
	})
}

func TestOrder_Deliver(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	t.Run("matching code delivers", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.OutForDelivery)

		require.NoError(t, o.Deliver(driverID, testCode, now))

		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.DeliveredAt())
		assert.True(t, o.DeliveredAt().Equal(now))
		assert.True(t, o.Driver().IsEqual(driverID))
	})

	t.Run("wrong code changes nothing", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.OutForDelivery)
		o.ClearDomainEvents()

		require.ErrorIs(t, o.Deliver(driverID, "0000", now), errs.ErrValueIsInvalid)
		require.ErrorIs(t, o.Deliver(driverID, "", now), errs.ErrValueIsRequired)

		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Nil(t, o.DeliveredAt())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("second deliver fails", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Delivered)

		require.ErrorIs(t, o.Deliver(driverID, testCode, now), errs.ErrInvalidTransition)
	})

	t.Run("cannot skip states", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.PickedUp)

		require.ErrorIs(t, o.Deliver(driverID, testCode, now), errs.ErrInvalidTransition)
	})
}

func TestOrder_Cancel(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	for _, from := range order.ActiveStatuses() {
		t.Run("from "+from.String(), func(t *testing.T) {
			o := newAwaitingOrder(t, f)
			advance(t, o, driverID, from)
			o.ClearDomainEvents()

			require.NoError(t, o.Cancel(driverID, "customer unreachable", now))

			assert.Equal(t, order.Cancelled, o.Status())
			assert.Nil(t, o.Driver())
			require.NotNil(t, o.CancelledBy())
			assert.True(t, o.CancelledBy().IsEqual(driverID))
			assert.Equal(t, "customer unreachable", o.CancelReason())

			events := o.DomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, order.EventCancelled, events[0].EventName())
			changed, ok := events[0].(order.StatusChangedEvent)
			require.True(t, ok)
			assert.Equal(t, driverID.String(), changed.DriverID)
		})
	}

	t.Run("not from awaiting or terminal states", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		require.ErrorIs(t, o.Cancel(driverID, "x", now), errs.ErrInvalidTransition)

		advance(t, o, driverID, order.Delivered)
		require.ErrorIs(t, o.Cancel(driverID, "x", now), errs.ErrInvalidTransition)
	})

	t.Run("edge is checked before the reason", func(t *testing.T) {
		o := newAwaitingOrder(t, f)

		err := o.Cancel(driverID, "", now)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.NotErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("requires a reason", func(t *testing.T) {
		o := newAwaitingOrder(t, f)
		advance(t, o, driverID, order.Assigned)
		require.ErrorIs(t, o.Cancel(driverID, "", now), errs.ErrValueIsRequired)
	})
}

func TestRestoreOrder(t *testing.T) {
	f := newFixture(t)
	driverID := kernel.NewUUID()

	base := order.RestoreParams{
		ID:           kernel.NewUUID(),
		Status:       order.PickedUp,
		DriverID:     &driverID,
		Pickup:       f.pickup,
		Dropoff:      f.dropoff,
		Total:        f.total,
		DeliveryFee:  f.fee,
		DeliveryCode: f.code,
		Version:      7,
		CreatedAt:    now,
	}

	t.Run("should restore a consistent row", func(t *testing.T) {
		o, err := order.RestoreOrder(base)

		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, o.Status())
		assert.Equal(t, int64(7), o.Version())
		assert.True(t, o.Driver().IsEqual(driverID))
		require.NoError(t, o.StartDelivery(driverID, now))
	})

	t.Run("should refuse a driver on an awaiting order", func(t *testing.T) {
		p := base
		p.Status = order.AwaitingDriver

		_, err := order.RestoreOrder(p)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse an active order without driver", func(t *testing.T) {
		p := base
		p.DriverID = nil

		_, err := order.RestoreOrder(p)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse negative version", func(t *testing.T) {
		p := base
		p.Version = -1

		_, err := order.RestoreOrder(p)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
