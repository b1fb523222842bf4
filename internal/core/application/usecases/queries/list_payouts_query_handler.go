package queries

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/cursor"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListPayoutsQueryHandler struct {
	db *gorm.DB
}

func NewListPayoutsQueryHandler(db *gorm.DB) ListPayoutsQueryHandler {
	return ListPayoutsQueryHandler{db: db}
}

func (h ListPayoutsQueryHandler) Handle(ctx context.Context, query ListPayoutsQuery) (ListPayoutsResponse, error) {
	if err := query.Validate(); err != nil {
		return ListPayoutsResponse{}, err
	}

	var (
		where []string
		args  []any
		f     = query.Filter()
	)
	if f.DriverID != nil {
		where = append(where, "p.driver_id = ?")
		args = append(args, f.DriverID.Bytes())
	}
	if f.Status != nil {
		where = append(where, "p.status = ?")
		args = append(args, f.Status.String())
	}
	if f.CreatedFrom != nil {
		where = append(where, "p.created_at >= ?")
		args = append(args, *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		where = append(where, "p.created_at < ?")
		args = append(args, *f.CreatedTo)
	}
	if after := query.page.After(); after != nil {
		where = append(where, "(p.created_at, p.id) < (?, ?)")
		args = append(args, after.CreatedAt, after.ID.Bytes())
	}

	var sqlText strings.Builder
	sqlText.WriteString(`
		SELECT
			p.id,
			p.driver_id,
			p.amount,
			p.currency,
			p.status,
			p.reference,
			(SELECT COUNT(*) FROM driver_earnings e WHERE e.payout_id = p.id),
			p.created_at,
			p.paid_at
		FROM driver_payouts p`)
	if len(where) > 0 {
		sqlText.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	sqlText.WriteString(`
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?`)
	args = append(args, query.Limit()+1)

	rows, err := h.db.WithContext(ctx).Raw(sqlText.String(), args...).Rows()
	if err != nil {
		return ListPayoutsResponse{}, errs.NewInfrastructureErrorWithCause("list payouts", err)
	}
	defer rows.Close()

	items := make([]PayoutItem, 0, query.Limit()+1)
	for rows.Next() {
		var (
			item         PayoutItem
			id, driverID uuid.UUID
			amount       int64
			currency     string
			reference    sql.NullString
			paidAt       sql.NullTime
		)
		err = rows.Scan(&id, &driverID, &amount, &currency, &item.Status, &reference, &item.EarningsCount, &item.CreatedAt, &paidAt)
		if err != nil {
			return ListPayoutsResponse{}, errs.NewInfrastructureErrorWithCause("scan payout", err)
		}

		var errList [3]error
		item.ID, errList[0] = kernel.UUIDFromBytes(id[:])
		item.DriverID, errList[1] = kernel.UUIDFromBytes(driverID[:])
		item.Amount, errList[2] = kernel.NewMoney(amount, currency)
		if err = errors.Join(errList[:]...); err != nil {
			return ListPayoutsResponse{}, err
		}
		item.Reference = reference.String
		item.PaidAt = optionalTime(paidAt)

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return ListPayoutsResponse{}, errs.NewInfrastructureErrorWithCause("list payouts", err)
	}

	resp := ListPayoutsResponse{Payouts: items}
	if len(items) > query.Limit() {
		resp.Payouts = items[:query.Limit()]
		tail := resp.Payouts[len(resp.Payouts)-1]
		resp.NextCursor = cursor.Encode(cursor.Key{CreatedAt: tail.CreatedAt, ID: tail.ID})
	}

	return resp, nil
}
