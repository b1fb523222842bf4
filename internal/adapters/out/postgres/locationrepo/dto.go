// Package locationrepo stores the append-only stream of driver positions.
package locationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type LocationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID   uuid.UUID `gorm:"type:uuid;not null;index:idx_driver_locations_driver_recorded,priority:1"`
	Lat        float64   `gorm:"type:double precision;not null"`
	Lng        float64   `gorm:"type:double precision;not null"`
	Bearing    *float64  `gorm:"type:double precision"`
	RecordedAt time.Time `gorm:"not null;index:idx_driver_locations_driver_recorded,priority:2,sort:desc"`
}

func (LocationDTO) TableName() string {
	return "driver_locations"
}

func fromDomain(s *driver.LocationSample) LocationDTO {
	return LocationDTO{
		ID:         s.ID().Bytes(),
		DriverID:   s.DriverID().Bytes(),
		Lat:        s.Point().Lat(),
		Lng:        s.Point().Lng(),
		Bearing:    s.Bearing(),
		RecordedAt: s.RecordedAt(),
	}
}

func toDomain(dto LocationDTO) (*driver.LocationSample, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}
	return driver.RestoreLocationSample(id, driverID, point, dto.Bearing, dto.RecordedAt)
}
