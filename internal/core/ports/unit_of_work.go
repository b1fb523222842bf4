package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one business transaction. Events raised by aggregates that
// its repositories wrote are stored in the outbox when Commit runs, inside
// the same database transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DriverRepository() DriverRepository
	LocationRepository() LocationRepository
	EarningRepository() EarningRepository
	PayoutRepository() PayoutRepository
}
