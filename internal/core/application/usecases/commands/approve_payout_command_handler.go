package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"
)

// ApprovePayoutCommandHandler settles the driver's pending earnings.
//
// The total is recomputed from the locked rows, so earnings accrued after
// the request are included. If the driver never requested, the payout is
// created here and settled right away.
type ApprovePayoutCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewApprovePayoutCommandHandler(uowFactory PayoutUoWFactory) ApprovePayoutCommandHandler {
	return ApprovePayoutCommandHandler{uowFactory: uowFactory}
}

func (h ApprovePayoutCommandHandler) Handle(ctx context.Context, cmd ApprovePayoutCommand) (PayoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return PayoutResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PayoutResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.DriverRepository().GetForUpdate(ctx, cmd.DriverID()); err != nil {
		return PayoutResult{}, err
	}

	payoutRepo := uow.PayoutRepository()
	earningRepo := uow.EarningRepository()

	earnings, err := earningRepo.ListPendingForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return PayoutResult{}, err
	}

	total, err := sumNet(earnings)
	if err != nil {
		return PayoutResult{}, err
	}

	now := time.Now()

	p, err := payoutRepo.GetPendingForDriver(ctx, cmd.DriverID())
	created := false
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		p, err = payout.NewPayout(kernel.NewUUID(), cmd.DriverID(), total, now)
		if err != nil {
			return PayoutResult{}, err
		}
		created = true
	case err != nil:
		return PayoutResult{}, err
	}

	if err = p.Settle(total, cmd.Reference(), now); err != nil {
		return PayoutResult{}, err
	}

	for _, e := range earnings {
		if err = e.MarkPaid(p.ID(), now); err != nil {
			return PayoutResult{}, err
		}
	}

	if created {
		err = payoutRepo.Add(ctx, p)
	} else {
		err = payoutRepo.Update(ctx, p)
	}
	if err != nil {
		return PayoutResult{}, err
	}

	if err = earningRepo.Update(ctx, earnings...); err != nil {
		return PayoutResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PayoutResult{}, err
	}

	return PayoutResult{PayoutID: p.ID(), Amount: total, EarningsCount: len(earnings)}, nil
}
