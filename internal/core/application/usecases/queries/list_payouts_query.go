package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrListPayoutsQueryIsNotConstructed = errors.New(
		"ListPayoutsQuery must be created via NewListPayoutsQuery constructor",
	)
)

// PayoutFilter narrows ListPayoutsQuery. Nil fields match everything. The
// created range is half-open: CreatedFrom <= created_at < CreatedTo.
type PayoutFilter struct {
	DriverID    *kernel.UUID
	Status      *payout.Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

func (f PayoutFilter) validate() error {
	if f.DriverID != nil {
		if err := f.DriverID.Validate(); err != nil {
			return err
		}
	}
	if f.Status != nil && *f.Status != payout.Pending && *f.Status != payout.Paid {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s is not a payout status", *f.Status))
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && !f.CreatedFrom.Before(*f.CreatedTo) {
		return errs.NewValueIsInvalidErrorWithCause("created range", errors.New("from must be before to"))
	}
	return nil
}

// ListPayoutsQuery pages through payouts for finance, newest first.
//
// Example:
//
//	paid := payout.Paid
//	query, err := NewListPayoutsQuery(PayoutFilter{Status: &paid}, "", 50)
type ListPayoutsQuery struct {
	filter PayoutFilter
	page   page

	guard guard.ConstructorGuard
}

func NewListPayoutsQuery(filter PayoutFilter, cursor string, limit int) (ListPayoutsQuery, error) {
	if err := filter.validate(); err != nil {
		return ListPayoutsQuery{}, err
	}

	p, err := newPage(cursor, limit)
	if err != nil {
		return ListPayoutsQuery{}, err
	}

	return ListPayoutsQuery{filter: filter, page: p, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPayoutsQuery) Validate() error {
	return q.guard.Validate(ErrListPayoutsQueryIsNotConstructed)
}

func (q ListPayoutsQuery) Filter() PayoutFilter {
	return q.filter
}

func (q ListPayoutsQuery) Limit() int {
	return q.page.Limit()
}

type PayoutItem struct {
	ID            kernel.UUID
	DriverID      kernel.UUID
	Amount        kernel.Money
	Status        string
	Reference     string
	EarningsCount int64
	CreatedAt     time.Time
	PaidAt        *time.Time
}

type ListPayoutsResponse struct {
	Payouts    []PayoutItem
	NextCursor string
}
