package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"
)

// RequestPayoutCommandHandler creates a PENDING payout over every pending
// earning that is not yet part of one. The earnings stay PENDING until the
// payout is approved.
type RequestPayoutCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewRequestPayoutCommandHandler(uowFactory PayoutUoWFactory) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{uowFactory: uowFactory}
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (PayoutResult, error) {
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

	_, err := payoutRepo.GetPendingForDriver(ctx, cmd.DriverID())
	switch {
	case err == nil:
		return PayoutResult{}, errs.NewConflictError("payout", "driver already has a pending payout")
	case !errors.Is(err, errs.ErrObjectNotFound):
		return PayoutResult{}, err
	}

	earnings, err := earningRepo.ListPendingUnbatchedForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return PayoutResult{}, err
	}

	total, err := sumNet(earnings)
	if err != nil {
		return PayoutResult{}, err
	}

	p, err := payout.NewPayout(kernel.NewUUID(), cmd.DriverID(), total, time.Now())
	if err != nil {
		return PayoutResult{}, err
	}

	if err = payoutRepo.Add(ctx, p); err != nil {
		return PayoutResult{}, err
	}

	for _, e := range earnings {
		if err = e.AttachToPayout(p.ID()); err != nil {
			return PayoutResult{}, err
		}
	}

	if err = earningRepo.Update(ctx, earnings...); err != nil {
		return PayoutResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PayoutResult{}, err
	}

	return PayoutResult{PayoutID: p.ID(), Amount: total, EarningsCount: len(earnings)}, nil
}
