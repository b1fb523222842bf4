package postgres

import (
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/earningrepo"
	"fulfillment/internal/adapters/out/postgres/locationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/payoutrepo"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// partialIndexes cannot be expressed as struct tags.
var partialIndexes = []string{
	// a driver holds at most one active order
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_orders_active_driver
		ON orders (driver_id)
		WHERE status IN ('ASSIGNED', 'PICKED_UP', 'OUT_FOR_DELIVERY')`,
	// and at most one pending payout
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_driver_payouts_pending
		ON driver_payouts (driver_id)
		WHERE status = 'PENDING'`,
	`CREATE INDEX IF NOT EXISTS idx_orders_awaiting_pickup
		ON orders (pickup_lat, pickup_lng)
		WHERE status = 'AWAITING_DRIVER'`,
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&driverrepo.DriverDTO{},
		&locationrepo.LocationDTO{},
		&orderrepo.OrderDTO{},
		&earningrepo.EarningDTO{},
		&payoutrepo.PayoutDTO{},
		&outboxrepo.MessageDTO{},
	)
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("auto migrate", err)
	}

	for _, stmt := range partialIndexes {
		if err = db.Exec(stmt).Error; err != nil {
			return errs.NewInfrastructureErrorWithCause("create partial index", err)
		}
	}
	return nil
}
