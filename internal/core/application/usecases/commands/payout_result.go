package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// PayoutResult describes the payout a request or approval produced.
type PayoutResult struct {
	PayoutID      kernel.UUID
	Amount        kernel.Money
	EarningsCount int
}

// sumNet totals the net of the given earnings. An empty slice is an
// errs.EmptyError. Earnings in more than one currency cannot be batched and
// are reported as errs.ConflictError.
func sumNet(earnings []*earning.Earning) (kernel.Money, error) {
	if len(earnings) == 0 {
		return kernel.Money{}, errs.NewEmptyError("pending earnings")
	}

	nets := make([]kernel.Money, 0, len(earnings))
	for _, e := range earnings {
		nets = append(nets, e.Net())
	}

	total, err := kernel.SumMoney(earnings[0].Net().Currency(), nets...)
	if errors.Is(err, kernel.ErrCurrencyMismatch) {
		return kernel.Money{}, errs.NewConflictErrorWithCause("earnings", "pending earnings span more than one currency", err)
	}
	return total, err
}
