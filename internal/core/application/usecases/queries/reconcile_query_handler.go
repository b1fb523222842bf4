package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// ReconcileQueryHandler compares the earnings ledger with the payouts that
// settled it. It reads both tables in one statement so the two sides come
// from the same snapshot.
type ReconcileQueryHandler struct {
	db *gorm.DB
}

func NewReconcileQueryHandler(db *gorm.DB) ReconcileQueryHandler {
	return ReconcileQueryHandler{db: db}
}

func (h ReconcileQueryHandler) Handle(ctx context.Context, query ReconcileQuery) (ReconcileResponse, error) {
	if err := query.Validate(); err != nil {
		return ReconcileResponse{}, err
	}

	pending, paid := earning.Pending.String(), earning.Paid.String()
	rows, err := h.db.WithContext(ctx).Raw(`
		WITH e AS (
			SELECT
				currency,
				COALESCE(SUM(net), 0)::bigint AS net,
				COALESCE(SUM(net) FILTER (WHERE status = ?), 0)::bigint AS paid,
				COALESCE(SUM(net) FILTER (WHERE status = ?), 0)::bigint AS pending,
				COUNT(*) FILTER (WHERE status = ?) AS paid_count,
				COUNT(*) FILTER (WHERE status = ?) AS pending_count
			FROM driver_earnings
			GROUP BY currency
		), p AS (
			SELECT
				currency,
				COALESCE(SUM(amount), 0)::bigint AS amount,
				COUNT(*) AS payout_count,
				MAX(paid_at) AS last_paid_at
			FROM driver_payouts
			WHERE status = ?
			GROUP BY currency
		)
		SELECT
			COALESCE(e.currency, p.currency),
			COALESCE(e.net, 0),
			COALESCE(e.paid, 0),
			COALESCE(e.pending, 0),
			COALESCE(e.paid_count, 0),
			COALESCE(e.pending_count, 0),
			COALESCE(p.amount, 0),
			COALESCE(p.payout_count, 0),
			p.last_paid_at
		FROM e
		FULL OUTER JOIN p ON p.currency = e.currency
		ORDER BY 1
	`, paid, pending, paid, pending, payout.Paid.String()).Rows()
	if err != nil {
		return ReconcileResponse{}, errs.NewInfrastructureErrorWithCause("reconcile", err)
	}
	defer rows.Close()

	resp := ReconcileResponse{Currencies: make([]CurrencyReconciliation, 0)}
	for rows.Next() {
		var (
			c                                  CurrencyReconciliation
			net, paidNet, pendingNet, payouts  int64
			lastPaidAt                         sql.NullTime
		)
		err = rows.Scan(
			&c.Currency,
			&net,
			&paidNet,
			&pendingNet,
			&c.PaidCount,
			&c.PendingCount,
			&payouts,
			&c.PayoutCount,
			&lastPaidAt,
		)
		if err != nil {
			return ReconcileResponse{}, errs.NewInfrastructureErrorWithCause("scan reconciliation", err)
		}

		var errList [4]error
		c.Net, errList[0] = kernel.NewMoney(net, c.Currency)
		c.Paid, errList[1] = kernel.NewMoney(paidNet, c.Currency)
		c.Pending, errList[2] = kernel.NewMoney(pendingNet, c.Currency)
		c.PaidPayouts, errList[3] = kernel.NewMoney(payouts, c.Currency)
		if err = errors.Join(errList[:]...); err != nil {
			return ReconcileResponse{}, err
		}
		c.LastPaidAt = optionalTime(lastPaidAt)
		c.Balanced = paidNet+pendingNet == net && payouts == paidNet

		resp.Currencies = append(resp.Currencies, c)
	}

	if err = rows.Err(); err != nil {
		return ReconcileResponse{}, errs.NewInfrastructureErrorWithCause("reconcile", err)
	}

	return resp, nil
}
