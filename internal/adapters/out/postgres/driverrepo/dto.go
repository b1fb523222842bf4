// Package driverrepo maps the Driver aggregate to the drivers table.
package driverrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DriverDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name       string    `gorm:"type:varchar(200);not null"`
	VehicleRef string    `gorm:"type:varchar(64)"`
	IsOnline   bool      `gorm:"not null;default:false"`
	IsVerified bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:         d.ID().Bytes(),
		UserID:     d.UserID().Bytes(),
		Name:       d.Name(),
		VehicleRef: d.VehicleRef(),
		IsOnline:   d.IsOnline(),
		IsVerified: d.IsVerified(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	return driver.RestoreDriver(id, userID, dto.Name, dto.VehicleRef, dto.IsOnline, dto.IsVerified)
}
