package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// AcceptOrderCommandHandler performs the claim.
//
// The driver row is locked first, so two accepts by the same driver run one
// after the other and the "one active order" check cannot be raced. The
// order itself is written with a conditional update; of two drivers racing
// for one order exactly one sees a row affected, the other gets a
// ConflictError. There is no retry here.
type AcceptOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	zones      ports.ZoneConfigProvider
	eta        services.ETAEstimator
}

func NewAcceptOrderCommandHandler(uowFactory FulfillmentUoWFactory, zones ports.ZoneConfigProvider) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		zones:      zones,
		eta:        services.NewETAEstimator(),
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cfg, err := h.zones.Current(ctx)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	orderRepo := uow.OrderRepository()

	d, err := driverRepo.GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if err = d.CanAcceptOrders(); err != nil {
		return err
	}

	busy, err := orderRepo.HasActiveForDriver(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if busy {
		return errs.NewConflictError("driver", "already holds an active order")
	}

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	var driverAt *kernel.GeoPoint
	sample, err := uow.LocationRepository().Latest(ctx, cmd.DriverID())
	switch {
	case err == nil:
		point := sample.Point()
		driverAt = &point
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	now := time.Now()
	eta, err := h.eta.ExpectedDeliveryAt(driverAt, o, cfg, now)
	if err != nil {
		return err
	}

	if err = o.Accept(cmd.DriverID(), eta, now); err != nil {
		return err
	}

	if err = orderRepo.Claim(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
