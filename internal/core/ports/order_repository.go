package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Add stores a newly registered order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Claim writes an accepted order only if the stored row is still awaiting
	// a driver, has no driver and carries the version the aggregate was
	// loaded with. A lost race returns errs.ConflictError.
	Claim(ctx context.Context, aggregate *order.Order) error

	// Update writes any other transition guarded by the loaded version. A
	// stale version returns errs.ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// HasActiveForDriver reports whether the driver holds an order in one of
	// order.ActiveStatuses.
	HasActiveForDriver(ctx context.Context, driverID kernel.UUID) (bool, error)
}
