package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetEarningsSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetEarningsSummaryQueryHandler(db *gorm.DB) GetEarningsSummaryQueryHandler {
	return GetEarningsSummaryQueryHandler{db: db}
}

// Handle aggregates in SQL on bigint minor units; nothing is converted to a
// decimal here.
func (h GetEarningsSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetEarningsSummaryQuery,
) (GetEarningsSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEarningsSummaryResponse{}, err
	}

	pending, paid := earning.Pending.String(), earning.Paid.String()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			currency,
			COALESCE(SUM(gross), 0)::bigint,
			COALESCE(SUM(commission), 0)::bigint,
			COALESCE(SUM(net), 0)::bigint,
			COALESCE(SUM(net) FILTER (WHERE status = ?), 0)::bigint,
			COALESCE(SUM(net) FILTER (WHERE status = ? AND payout_id IS NOT NULL), 0)::bigint,
			COALESCE(SUM(net) FILTER (WHERE status = ?), 0)::bigint,
			COUNT(*) FILTER (WHERE status = ?),
			COUNT(*) FILTER (WHERE status = ?)
		FROM driver_earnings
		WHERE driver_id = ?
		GROUP BY currency
		ORDER BY currency
	`, pending, pending, paid, pending, paid, query.DriverID().Bytes()).Rows()
	if err != nil {
		return GetEarningsSummaryResponse{}, errs.NewInfrastructureErrorWithCause("earnings summary", err)
	}
	defer rows.Close()

	resp := GetEarningsSummaryResponse{DriverID: query.DriverID(), Totals: make([]EarningsTotals, 0)}
	for rows.Next() {
		var (
			t                                                     EarningsTotals
			gross, commission, net, pendingNet, requested, paidNet int64
		)
		err = rows.Scan(
			&t.Currency,
			&gross,
			&commission,
			&net,
			&pendingNet,
			&requested,
			&paidNet,
			&t.PendingCount,
			&t.PaidCount,
		)
		if err != nil {
			return GetEarningsSummaryResponse{}, errs.NewInfrastructureErrorWithCause("scan earnings summary", err)
		}

		var errList [6]error
		t.Gross, errList[0] = kernel.NewMoney(gross, t.Currency)
		t.Commission, errList[1] = kernel.NewMoney(commission, t.Currency)
		t.Net, errList[2] = kernel.NewMoney(net, t.Currency)
		t.Pending, errList[3] = kernel.NewMoney(pendingNet, t.Currency)
		t.Requested, errList[4] = kernel.NewMoney(requested, t.Currency)
		t.Paid, errList[5] = kernel.NewMoney(paidNet, t.Currency)
		if err = errors.Join(errList[:]...); err != nil {
			return GetEarningsSummaryResponse{}, err
		}

		resp.Totals = append(resp.Totals, t)
	}

	if err = rows.Err(); err != nil {
		return GetEarningsSummaryResponse{}, errs.NewInfrastructureErrorWithCause("earnings summary", err)
	}

	return resp, nil
}
