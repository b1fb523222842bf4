package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
		"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
	)
)

// GetAvailableOrdersQuery lists the orders a driver may claim right now,
// oldest first.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(driverID, "", 20)
//	if err != nil {
//	    return err
//	}
//
//	page, err := handler.Handle(ctx, query)
//	for _, o := range page.Orders {
//	    fmt.Printf("%s %.1f km away, fee %s\n", o.ID, o.DistanceKm, o.DeliveryFee)
//	}
//	// page.NextCursor feeds the next call; empty means no more pages.
type GetAvailableOrdersQuery struct {
	driverID kernel.UUID
	page     page

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery accepts the cursor returned by the previous
// page, or "" for the first. limit 0 means DefaultPageLimit.
func NewGetAvailableOrdersQuery(driverID kernel.UUID, cursor string, limit int) (GetAvailableOrdersQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetAvailableOrdersQuery{}, err
	}

	p, err := newPage(cursor, limit)
	if err != nil {
		return GetAvailableOrdersQuery{}, err
	}

	return GetAvailableOrdersQuery{
		driverID: driverID,
		page:     p,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q GetAvailableOrdersQuery) Limit() int {
	return q.page.Limit()
}

// AvailableOrder is one claimable order as a driver sees it.
type AvailableOrder struct {
	ID          kernel.UUID
	Pickup      kernel.GeoPoint
	Dropoff     kernel.GeoPoint
	Total       kernel.Money
	DeliveryFee kernel.Money
	DistanceKm  float64
	CreatedAt   time.Time
}

type GetAvailableOrdersResponse struct {
	Orders     []AvailableOrder
	NextCursor string
}
