package payoutrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPayoutRepository implements ports.PayoutRepository using GORM.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a payout. A second PENDING payout for the driver violates
// the partial unique index and is reported as ConflictError.
func (r *GormPayoutRepository) Add(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("payout", "driver already has a pending payout", err)
		}
		return errs.NewInfrastructureErrorWithCause("insert payout", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update settles a stored PENDING payout. Paid payouts are immutable.
func (r *GormPayoutRepository) Update(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PayoutDTO{}).
		Where("id = ? AND status = ?", dto.ID, payout.Pending.String()).
		Select("amount", "status", "reference", "paid_at").
		Updates(&dto)
	if result.Error != nil {
		return errs.NewInfrastructureErrorWithCause("update payout", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("payout", aggregate.ID().String()+" is no longer pending")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPayoutRepository) GetPendingForDriver(ctx context.Context, driverID kernel.UUID) (*payout.Payout, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto PayoutDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID.Bytes(), payout.Pending.String()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pending payout of driver", driverID.String())
		}
		return nil, errs.NewInfrastructureErrorWithCause("get pending payout", err)
	}

	return toDomain(dto)
}
