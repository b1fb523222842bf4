// Package commands contains the operations that change engine state.
// Every command is built by a validating constructor and executed by a
// handler inside one unit of work.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces, composed per handler so each one sees only the
// repositories it touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	LocationRepoFactory interface {
		LocationRepository() ports.LocationRepository
	}

	EarningRepoFactory interface {
		EarningRepository() ports.EarningRepository
	}

	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	// OrderUoW is used by transitions that touch only the order row.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	LocationUoW interface {
		TxManager
		DriverRepoFactory
		LocationRepoFactory
	}

	LocationUoWFactory interface {
		Create() LocationUoW
	}

	// FulfillmentUoW is used by accept and deliver, which lock the driver
	// and, for deliver, write the ledger in the same transaction.
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		LocationRepoFactory
		EarningRepoFactory
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	PayoutUoW interface {
		TxManager
		DriverRepoFactory
		EarningRepoFactory
		PayoutRepoFactory
	}

	PayoutUoWFactory interface {
		Create() PayoutUoW
	}
)
