package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverRepository persists driver aggregates.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error
	Update(ctx context.Context, aggregate *driver.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
	GetByUserID(ctx context.Context, userID kernel.UUID) (*driver.Driver, error)

	// GetForUpdate loads the driver and holds its row lock until the
	// transaction ends. Accept, delivery accrual and payouts take it to
	// serialize per-driver decisions.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
}

// LocationRepository stores the append-only stream of driver positions.
type LocationRepository interface {
	Append(ctx context.Context, sample *driver.LocationSample) error

	// Latest returns errs.ObjectNotFoundError when the driver never reported.
	Latest(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error)
}

// LocationCache keeps each driver's newest position for hot reads.
type LocationCache interface {
	Set(ctx context.Context, sample *driver.LocationSample) error

	// Get returns errs.ObjectNotFoundError on a cache miss.
	Get(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error)
}

// LocationPublisher fans position reports out to live-tracking consumers.
type LocationPublisher interface {
	PublishLocation(ctx context.Context, sample *driver.LocationSample) error
}
