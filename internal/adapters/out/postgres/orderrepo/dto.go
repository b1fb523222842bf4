// Package orderrepo maps the Order aggregate to the orders table.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Money columns hold minor units; version is
// the optimistic concurrency token compared on every write.
type OrderDTO struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Status           string      `gorm:"type:varchar(32);not null;index"`
	DriverID         *uuid.UUID  `gorm:"type:uuid;index"`
	Pickup           GeoPointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff          GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	TotalAmount      int64       `gorm:"not null"`
	DeliveryFee      int64       `gorm:"not null"`
	Currency         string      `gorm:"type:char(3);not null"`
	DeliveryCodeHash string      `gorm:"type:varchar(100);not null"`

	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancelReason       string     `gorm:"type:varchar(500)"`
	LastRejectReason   string     `gorm:"type:varchar(500)"`

	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO is an embedded WGS84 coordinate pair.
type GeoPointDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:                 o.ID().Bytes(),
		Status:             o.Status().String(),
		DriverID:           optionalID(o.Driver()),
		Pickup:             GeoPointDTO{Lat: o.PickupPoint().Lat(), Lng: o.PickupPoint().Lng()},
		Dropoff:            GeoPointDTO{Lat: o.DropoffPoint().Lat(), Lng: o.DropoffPoint().Lng()},
		TotalAmount:        o.Total().Amount(),
		DeliveryFee:        o.DeliveryFee().Amount(),
		Currency:           o.Total().Currency(),
		DeliveryCodeHash:   o.DeliveryCode().Hash(),
		ExpectedDeliveryAt: o.ExpectedDeliveryAt(),
		DeliveredAt:        o.DeliveredAt(),
		CancelledAt:        o.CancelledAt(),
		CancelledBy:        optionalID(o.CancelledBy()),
		CancelReason:       o.CancelReason(),
		LastRejectReason:   o.LastRejectReason(),
		Version:            o.Version(),
		CreatedAt:          o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := restoreOptionalID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	cancelledBy, err := restoreOptionalID(dto.CancelledBy)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Lat, dto.Dropoff.Lng)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.Currency)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee, dto.Currency)
	if err != nil {
		return nil, err
	}

	code, err := kernel.RestoreDeliveryCode(dto.DeliveryCodeHash)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                 id,
		Status:             status,
		DriverID:           driverID,
		Pickup:             pickup,
		Dropoff:            dropoff,
		Total:              total,
		DeliveryFee:        fee,
		DeliveryCode:       code,
		ExpectedDeliveryAt: dto.ExpectedDeliveryAt,
		DeliveredAt:        dto.DeliveredAt,
		CancelledAt:        dto.CancelledAt,
		CancelledBy:        cancelledBy,
		CancelReason:       dto.CancelReason,
		LastRejectReason:   dto.LastRejectReason,
		Version:            dto.Version,
		CreatedAt:          dto.CreatedAt,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
