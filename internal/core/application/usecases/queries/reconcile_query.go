package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReconcileQueryIsNotConstructed = errors.New(
		"ReconcileQuery must be created via NewReconcileQuery constructor",
	)
)

// ReconcileQuery audits the ledger across all drivers.
type ReconcileQuery struct {
	guard guard.ConstructorGuard
}

func NewReconcileQuery() ReconcileQuery {
	return ReconcileQuery{guard: guard.NewConstructorGuard()}
}

func (q ReconcileQuery) Validate() error {
	return q.guard.Validate(ErrReconcileQueryIsNotConstructed)
}

// CurrencyReconciliation is the audit result for one currency.
//
// Balanced holds when Paid + Pending == Net over every earning and the paid
// payouts add up to exactly the paid earnings.
type CurrencyReconciliation struct {
	Currency     string
	Net          kernel.Money
	Paid         kernel.Money
	Pending      kernel.Money
	PaidCount    int64
	PendingCount int64
	PaidPayouts  kernel.Money
	PayoutCount  int64
	LastPaidAt   *time.Time
	Balanced     bool
}

type ReconcileResponse struct {
	Currencies []CurrencyReconciliation
}

// Balanced reports whether every currency reconciles.
func (r ReconcileResponse) Balanced() bool {
	for _, c := range r.Currencies {
		if !c.Balanced {
			return false
		}
	}
	return true
}
