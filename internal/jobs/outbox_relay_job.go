package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const DefaultRelayBatchSize = 100

// OutboxRelayJob moves committed domain events from the outbox to the
// brokers. Messages go out oldest first; the first failure ends the batch so
// a later event never overtakes an earlier one. A message counts as published
// only after every publisher accepted it, so any of them may see it twice.
type OutboxRelayJob struct {
	outbox     ports.OutboxRepository
	publishers []ports.EventPublisher
	schedule   string
	batchSize  int
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewOutboxRelayJob(
	outbox ports.OutboxRepository,
	publishers []ports.EventPublisher,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelayJob {
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	return &OutboxRelayJob{
		outbox:     outbox,
		publishers: publishers,
		schedule:   schedule,
		batchSize:  batchSize,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.With("component", "outbox_relay_job"),
	}
}

// Start schedules RunOnce. schedule is a six-field cron expression, seconds
// first.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// RunOnce relays one batch and returns how many messages it published.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	messages, err := j.outbox.ListUnpublished(ctx, j.batchSize)
	if err != nil {
		return 0, err
	}

	published := make([]kernel.UUID, 0, len(messages))
	var publishErr error

relay:
	for _, msg := range messages {
		for _, p := range j.publishers {
			if publishErr = p.Publish(ctx, msg); publishErr != nil {
				j.logger.WarnContext(ctx, "Publishing outbox message failed",
					"event_id", msg.ID.String(), "event_name", msg.EventName, "error", publishErr)
				break relay
			}
		}
		published = append(published, msg.ID)
	}

	if len(published) > 0 {
		if err = j.outbox.MarkPublished(ctx, published, time.Now()); err != nil {
			return 0, err
		}
		j.logger.DebugContext(ctx, "Outbox messages relayed", "count", len(published))
	}

	return len(published), publishErr
}
