package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

type reconcileHandler interface {
	Handle(ctx context.Context, query queries.ReconcileQuery) (queries.ReconcileResponse, error)
}

// ReconciliationJob audits the ledger on a schedule. An imbalance is never
// repaired here; it is reported at error level with the figures finance needs
// to investigate.
type ReconciliationJob struct {
	handler  reconcileHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewReconciliationJob(handler reconcileHandler, schedule string, logger *slog.Logger) *ReconciliationJob {
	return &ReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "reconciliation_job"),
	}
}

func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}

func (j *ReconciliationJob) RunOnce(ctx context.Context) (queries.ReconcileResponse, error) {
	resp, err := j.handler.Handle(ctx, queries.NewReconcileQuery())
	if err != nil {
		return queries.ReconcileResponse{}, err
	}

	for _, c := range resp.Currencies {
		if c.Balanced {
			j.logger.InfoContext(ctx, "Ledger balanced",
				"currency", c.Currency,
				"net", c.Net.Amount(),
				"paid", c.Paid.Amount(),
				"pending", c.Pending.Amount())
			continue
		}

		j.logger.ErrorContext(ctx, "LEDGER OUT OF BALANCE",
			"currency", c.Currency,
			"net", c.Net.Amount(),
			"paid", c.Paid.Amount(),
			"pending", c.Pending.Amount(),
			"paid_payouts", c.PaidPayouts.Amount(),
			"paid_count", c.PaidCount,
			"pending_count", c.PendingCount,
			"payout_count", c.PayoutCount)
	}

	return resp, nil
}
