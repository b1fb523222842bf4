// Package earningrepo maps driver earnings to the driver_earnings table.
package earningrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EarningDTO is one ledger row. order_id is unique, which makes accrual
// idempotent even if two deliveries of the same order raced.
type EarningDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_driver_earnings_driver_created,priority:1"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Gross      int64      `gorm:"not null"`
	Commission int64      `gorm:"not null"`
	Net        int64      `gorm:"not null"`
	Currency   string     `gorm:"type:char(3);not null"`
	Status     string     `gorm:"type:varchar(16);not null;index"`
	PayoutID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time  `gorm:"not null;index:idx_driver_earnings_driver_created,priority:2"`
	PaidAt     *time.Time
}

func (EarningDTO) TableName() string {
	return "driver_earnings"
}

func fromDomain(e *earning.Earning) EarningDTO {
	var payoutID *uuid.UUID
	if id := e.PayoutID(); id != nil {
		raw := id.Bytes()
		payoutID = &raw
	}

	return EarningDTO{
		ID:         e.ID().Bytes(),
		DriverID:   e.DriverID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		Gross:      e.Gross().Amount(),
		Commission: e.Commission().Amount(),
		Net:        e.Net().Amount(),
		Currency:   e.Gross().Currency(),
		Status:     e.Status().String(),
		PayoutID:   payoutID,
		CreatedAt:  e.CreatedAt(),
		PaidAt:     e.PaidAt(),
	}
}

func toDomain(dto EarningDTO) (*earning.Earning, error) {
	ids := make([]kernel.UUID, 0, 3)
	for _, raw := range []uuid.UUID{dto.ID, dto.DriverID, dto.OrderID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	var payoutID *kernel.UUID
	if dto.PayoutID != nil {
		id, err := kernel.UUIDFromBytes((*dto.PayoutID)[:])
		if err != nil {
			return nil, err
		}
		payoutID = &id
	}

	gross, err := kernel.NewMoney(dto.Gross, dto.Currency)
	if err != nil {
		return nil, err
	}
	commission, err := kernel.NewMoney(dto.Commission, dto.Currency)
	if err != nil {
		return nil, err
	}
	net, err := kernel.NewMoney(dto.Net, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := earning.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return earning.RestoreEarning(earning.RestoreParams{
		ID:         ids[0],
		DriverID:   ids[1],
		OrderID:    ids[2],
		Gross:      gross,
		Commission: commission,
		Net:        net,
		Status:     status,
		PayoutID:   payoutID,
		CreatedAt:  dto.CreatedAt,
		PaidAt:     dto.PaidAt,
	})
}
