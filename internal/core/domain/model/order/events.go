package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const (
	EventAccepted              = "order.accepted"
	EventReassignmentAvailable = "order.reassignment_available"
	EventPickedUp              = "order.picked_up"
	EventOutForDelivery        = "order.out_for_delivery"
	EventDelivered             = "order.delivered"
	EventCancelled             = "order.cancelled"
)

// StatusChangedEvent is raised on every state transition. Name tells the
// transition apart; the payload is the order's state right after it.
type StatusChangedEvent struct {
	kernel.BaseEvent

	OrderID   string  `json:"order_id"`
	DriverID  string  `json:"driver_id,omitempty"`
	Status    string  `json:"status"`
	Reason    string  `json:"reason,omitempty"`
	PickupLat float64 `json:"pickup_lat"`
	PickupLng float64 `json:"pickup_lng"`
}

func newStatusChangedEvent(o *Order, name string, now time.Time, driverID *kernel.UUID, reason string) StatusChangedEvent {
	e := StatusChangedEvent{
		BaseEvent: kernel.NewBaseEvent(name, o.id, now),
		OrderID:   o.id.String(),
		Status:    o.status.String(),
		Reason:    reason,
		PickupLat: o.pickup.Lat(),
		PickupLng: o.pickup.Lng(),
	}
	if driverID != nil {
		e.DriverID = driverID.String()
	}
	return e
}
