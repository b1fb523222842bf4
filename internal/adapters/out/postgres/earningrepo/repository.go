package earningrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEarningRepository implements ports.EarningRepository using GORM.
type GormEarningRepository struct {
	db *gorm.DB
}

func NewGormEarningRepository(db *gorm.DB) *GormEarningRepository {
	return &GormEarningRepository{db: db}
}

func (r *GormEarningRepository) Add(ctx context.Context, aggregate *earning.Earning) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("earning", "order "+aggregate.OrderID().String()+" already accrued", err)
		}
		return errs.NewInfrastructureErrorWithCause("insert earning", err)
	}
	return nil
}

// Update writes payout batching and settlement. Only PENDING rows are
// touched, so a paid earning can never be rewritten.
func (r *GormEarningRepository) Update(ctx context.Context, aggregates ...*earning.Earning) error {
	for _, aggregate := range aggregates {
		if err := aggregate.Validate(); err != nil {
			return err
		}

		dto := fromDomain(aggregate)
		result := r.db.WithContext(ctx).
			Model(&EarningDTO{}).
			Where("id = ? AND status = ?", dto.ID, earning.Pending.String()).
			Select("status", "payout_id", "paid_at").
			Updates(&dto)
		if result.Error != nil {
			return errs.NewInfrastructureErrorWithCause("update earning", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewConflictError("earning", aggregate.ID().String()+" is no longer pending")
		}
	}
	return nil
}

func (r *GormEarningRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&EarningDTO{}).Where("order_id = ?", orderID.Bytes()).Count(&count).Error
	if err != nil {
		return false, errs.NewInfrastructureErrorWithCause("count earnings", err)
	}
	return count > 0, nil
}

func (r *GormEarningRepository) ListPendingUnbatchedForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error) {
	return r.listPending(ctx, driverID, true)
}

func (r *GormEarningRepository) ListPendingForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error) {
	return r.listPending(ctx, driverID, false)
}

func (r *GormEarningRepository) listPending(ctx context.Context, driverID kernel.UUID, unbatchedOnly bool) ([]*earning.Earning, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("driver_id = ? AND status = ?", driverID.Bytes(), earning.Pending.String())
	if unbatchedOnly {
		q = q.Where("payout_id IS NULL")
	}

	var dtos []EarningDTO
	if err := q.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, errs.NewInfrastructureErrorWithCause("list pending earnings", err)
	}

	earnings := make([]*earning.Earning, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, nil
}
