package locationrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLocationRepository implements ports.LocationRepository using GORM.
// Samples raise no events and are not tracked.
type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) Append(ctx context.Context, sample *driver.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	dto := fromDomain(sample)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewInfrastructureErrorWithCause("insert driver location", err)
	}
	return nil
}

// Latest returns the sample with the newest recorded_at, which is not
// necessarily the one appended last.
func (r *GormLocationRepository) Latest(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto LocationDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID.Bytes()).
		Order("recorded_at DESC").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver location", driverID.String())
		}
		return nil, errs.NewInfrastructureErrorWithCause("get latest driver location", err)
	}

	return toDomain(dto)
}
