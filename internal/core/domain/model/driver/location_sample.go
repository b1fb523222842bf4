package driver

import (
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLocationSampleIsNotConstructed is returned for a zero LocationSample.
var ErrLocationSampleIsNotConstructed = errors.New("LocationSample must be created via NewLocationSample constructor")

// LocationSample is one position report. Samples are append-only; the newest
// one is the driver's last known location.
type LocationSample struct {
	id         kernel.UUID
	driverID   kernel.UUID
	point      kernel.GeoPoint
	bearing    *float64
	recordedAt time.Time

	isConstructed bool
}

// NewLocationSample validates a report. bearing is optional, in degrees
// clockwise from north.
func NewLocationSample(driverID kernel.UUID, point kernel.GeoPoint, bearing *float64, recordedAt time.Time) (*LocationSample, error) {
	return RestoreLocationSample(kernel.NewUUID(), driverID, point, bearing, recordedAt)
}

func RestoreLocationSample(
	id, driverID kernel.UUID,
	point kernel.GeoPoint,
	bearing *float64,
	recordedAt time.Time,
) (*LocationSample, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), point.Validate()); err != nil {
		return nil, err
	}
	if bearing != nil && (math.IsNaN(*bearing) || *bearing < 0 || *bearing >= 360) {
		return nil, errs.NewValueIsOutOfRangeError("bearing", *bearing, 0, 360)
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("recorded at")
	}

	return &LocationSample{
		id:            id,
		driverID:      driverID,
		point:         point,
		bearing:       bearing,
		recordedAt:    recordedAt.UTC(),
		isConstructed: true,
	}, nil
}

func (s *LocationSample) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrLocationSampleIsNotConstructed
	}
	return nil
}

func (s *LocationSample) ID() kernel.UUID {
	return s.id
}

func (s *LocationSample) DriverID() kernel.UUID {
	return s.driverID
}

func (s *LocationSample) Point() kernel.GeoPoint {
	return s.point
}

func (s *LocationSample) Bearing() *float64 {
	return s.bearing
}

func (s *LocationSample) RecordedAt() time.Time {
	return s.recordedAt
}
