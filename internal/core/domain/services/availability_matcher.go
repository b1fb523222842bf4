package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"
)

// Candidate is the slice of an order the matcher needs. The read path builds
// it straight from query rows without loading the aggregate.
type Candidate struct {
	Status    order.Status
	HasDriver bool
	Pickup    kernel.GeoPoint
}

// Match is the matcher's verdict for one candidate.
type Match struct {
	Eligible   bool
	DistanceKm float64
}

// AvailabilityMatcher decides whether a driver may see an order.
//
// Business rules:
//   - only orders awaiting a driver with no driver set are eligible
//   - with radius filtering on, the pickup must be within the zone's match
//     radius of the driver, measured as great-circle distance
//   - with radius filtering off, every awaiting order is eligible; distance is
//     still reported for display
type AvailabilityMatcher struct{}

func NewAvailabilityMatcher() AvailabilityMatcher {
	return AvailabilityMatcher{}
}

// Match evaluates c for a driver standing at driverAt.
//
// Example:
//
//	m, err := matcher.Match(driverAt, services.Candidate{
//	    Status: order.AwaitingDriver,
//	    Pickup: pickup,
//	}, cfg)
//	if err == nil && m.Eligible {
//	    // offer the order
//	}
func (AvailabilityMatcher) Match(driverAt kernel.GeoPoint, c Candidate, cfg zone.Config) (Match, error) {
	if err := errors.Join(driverAt.Validate(), c.Pickup.Validate(), cfg.Validate()); err != nil {
		return Match{}, err
	}

	distance, err := driverAt.DistanceKm(c.Pickup)
	if err != nil {
		return Match{}, err
	}

	if c.Status != order.AwaitingDriver || c.HasDriver {
		return Match{DistanceKm: distance}, nil
	}
	if cfg.RadiusFilterEnabled() && distance > cfg.MatchRadiusKm() {
		return Match{DistanceKm: distance}, nil
	}

	return Match{Eligible: true, DistanceKm: distance}, nil
}
