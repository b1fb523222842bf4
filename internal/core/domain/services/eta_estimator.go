package services

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"
)

// ETAEstimator is a straight-line placeholder: distance from the driver to
// the pickup plus pickup to drop-off, over the zone's average speed.
type ETAEstimator struct{}

func NewETAEstimator() ETAEstimator {
	return ETAEstimator{}
}

// ExpectedDeliveryAt returns the estimate. driverAt may be nil when the
// driver's position is unknown; only the pickup leg is then skipped.
func (ETAEstimator) ExpectedDeliveryAt(driverAt *kernel.GeoPoint, o *order.Order, cfg zone.Config, now time.Time) (time.Time, error) {
	if err := errors.Join(o.Validate(), cfg.Validate()); err != nil {
		return time.Time{}, err
	}

	km, err := o.PickupPoint().DistanceKm(o.DropoffPoint())
	if err != nil {
		return time.Time{}, err
	}

	if driverAt != nil {
		toPickup, err := driverAt.DistanceKm(o.PickupPoint())
		if err != nil {
			return time.Time{}, err
		}
		km += toPickup
	}

	hours := km / cfg.AverageSpeedKmh()
	return now.Add(time.Duration(hours * float64(time.Hour))).UTC(), nil
}
