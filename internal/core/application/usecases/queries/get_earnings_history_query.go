package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetEarningsHistoryQueryIsNotConstructed = errors.New(
		"GetEarningsHistoryQuery must be created via NewGetEarningsHistoryQuery constructor",
	)
)

// GetEarningsHistoryQuery pages through a driver's earnings, newest first.
type GetEarningsHistoryQuery struct {
	driverID kernel.UUID
	page     page

	guard guard.ConstructorGuard
}

func NewGetEarningsHistoryQuery(driverID kernel.UUID, cursor string, limit int) (GetEarningsHistoryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetEarningsHistoryQuery{}, err
	}

	p, err := newPage(cursor, limit)
	if err != nil {
		return GetEarningsHistoryQuery{}, err
	}

	return GetEarningsHistoryQuery{driverID: driverID, page: p, guard: guard.NewConstructorGuard()}, nil
}

func (q GetEarningsHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsHistoryQueryIsNotConstructed)
}

func (q GetEarningsHistoryQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q GetEarningsHistoryQuery) Limit() int {
	return q.page.Limit()
}

type EarningItem struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Gross      kernel.Money
	Commission kernel.Money
	Net        kernel.Money
	Status     string
	PayoutID   *kernel.UUID
	CreatedAt  time.Time
	PaidAt     *time.Time
}

type GetEarningsHistoryResponse struct {
	Earnings   []EarningItem
	NextCursor string
}
