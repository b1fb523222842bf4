package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
)

// EarningRepository persists the driver earnings ledger.
type EarningRepository interface {
	// Add stores a new earning. A second earning for the same order returns
	// errs.ConflictError.
	Add(ctx context.Context, aggregate *earning.Earning) error

	Update(ctx context.Context, aggregates ...*earning.Earning) error

	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)

	// ListPendingUnbatchedForUpdate locks and returns the driver's PENDING
	// earnings that no payout references yet.
	ListPendingUnbatchedForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error)

	// ListPendingForUpdate locks and returns every PENDING earning of the
	// driver, batched or not.
	ListPendingForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error)
}

// PayoutRepository persists payouts.
type PayoutRepository interface {
	Add(ctx context.Context, aggregate *payout.Payout) error
	Update(ctx context.Context, aggregate *payout.Payout) error

	// GetPendingForDriver returns errs.ObjectNotFoundError when the driver
	// has no PENDING payout.
	GetPendingForDriver(ctx context.Context, driverID kernel.UUID) (*payout.Payout, error)
}
