// Package payoutrepo maps payouts to the driver_payouts table.
package payoutrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"

	"github.com/google/uuid"
)

type PayoutDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount    int64     `gorm:"not null"`
	Currency  string    `gorm:"type:char(3);not null"`
	Status    string    `gorm:"type:varchar(16);not null;index"`
	Reference string    `gorm:"type:varchar(128)"`
	PaidAt    *time.Time
	CreatedAt time.Time `gorm:"not null;index"`
}

func (PayoutDTO) TableName() string {
	return "driver_payouts"
}

func fromDomain(p *payout.Payout) PayoutDTO {
	return PayoutDTO{
		ID:        p.ID().Bytes(),
		DriverID:  p.DriverID().Bytes(),
		Amount:    p.Amount().Amount(),
		Currency:  p.Amount().Currency(),
		Status:    p.Status().String(),
		Reference: p.Reference(),
		PaidAt:    p.PaidAt(),
		CreatedAt: p.CreatedAt(),
	}
}

func toDomain(dto PayoutDTO) (*payout.Payout, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount, dto.Currency)
	if err != nil {
		return nil, err
	}
	status, err := payout.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return payout.RestorePayout(id, driverID, amount, status, dto.Reference, dto.PaidAt, dto.CreatedAt)
}
