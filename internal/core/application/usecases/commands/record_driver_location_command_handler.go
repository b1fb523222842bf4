package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// RecordDriverLocationCommandHandler stores a position report and then, after
// commit, refreshes the live location cache and fans the report out to
// tracking consumers. The stored row is the source of truth, so cache and
// broker failures are logged and do not fail the request.
type RecordDriverLocationCommandHandler struct {
	uowFactory LocationUoWFactory
	cache      ports.LocationCache
	publisher  ports.LocationPublisher
	logger     *slog.Logger
}

func NewRecordDriverLocationCommandHandler(
	uowFactory LocationUoWFactory,
	cache ports.LocationCache,
	publisher ports.LocationPublisher,
	logger *slog.Logger,
) RecordDriverLocationCommandHandler {
	return RecordDriverLocationCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		publisher:  publisher,
		logger:     logger.With("component", "RecordDriverLocationCommandHandler"),
	}
}

func (h RecordDriverLocationCommandHandler) Handle(ctx context.Context, cmd RecordDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	sample := cmd.Sample()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.DriverRepository().Get(ctx, sample.DriverID()); err != nil {
		return err
	}

	if err := uow.LocationRepository().Append(ctx, sample); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if err := h.cache.Set(ctx, sample); err != nil {
		h.logger.WarnContext(ctx, "failed to cache driver location",
			"driver_id", sample.DriverID().String(), "error", err)
	}

	if err := h.publisher.PublishLocation(ctx, sample); err != nil {
		h.logger.WarnContext(ctx, "failed to publish driver location",
			"driver_id", sample.DriverID().String(), "error", err)
	}

	return nil
}
