package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetEarningsSummaryQueryIsNotConstructed = errors.New(
		"GetEarningsSummaryQuery must be created via NewGetEarningsSummaryQuery constructor",
	)
)

// GetEarningsSummaryQuery totals a driver's earnings per currency.
type GetEarningsSummaryQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetEarningsSummaryQuery(driverID kernel.UUID) (GetEarningsSummaryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetEarningsSummaryQuery{}, err
	}
	return GetEarningsSummaryQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetEarningsSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsSummaryQueryIsNotConstructed)
}

func (q GetEarningsSummaryQuery) DriverID() kernel.UUID {
	return q.driverID
}

// EarningsTotals are the sums for one currency. Pending + Paid == Net.
// Requested is the part of Pending already collected into a payout request.
type EarningsTotals struct {
	Currency     string
	Gross        kernel.Money
	Commission   kernel.Money
	Net          kernel.Money
	Pending      kernel.Money
	Requested    kernel.Money
	Paid         kernel.Money
	PendingCount int64
	PaidCount    int64
}

// GetEarningsSummaryResponse has one entry per currency the driver earned
// in, sorted by currency code. A driver with no earnings gets none.
type GetEarningsSummaryResponse struct {
	DriverID kernel.UUID
	Totals   []EarningsTotals
}
