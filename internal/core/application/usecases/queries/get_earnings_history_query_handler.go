package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/cursor"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetEarningsHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetEarningsHistoryQueryHandler(db *gorm.DB) GetEarningsHistoryQueryHandler {
	return GetEarningsHistoryQueryHandler{db: db}
}

func (h GetEarningsHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetEarningsHistoryQuery,
) (GetEarningsHistoryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEarningsHistoryResponse{}, err
	}

	sqlText := `
		SELECT
			id,
			order_id,
			gross,
			commission,
			net,
			currency,
			status,
			payout_id,
			created_at,
			paid_at
		FROM driver_earnings
		WHERE driver_id = ?`
	args := []any{query.DriverID().Bytes()}
	if after := query.page.After(); after != nil {
		sqlText += ` AND (created_at, id) < (?, ?)`
		args = append(args, after.CreatedAt, after.ID.Bytes())
	}
	sqlText += `
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	args = append(args, query.Limit()+1)

	rows, err := h.db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return GetEarningsHistoryResponse{}, errs.NewInfrastructureErrorWithCause("earnings history", err)
	}
	defer rows.Close()

	items := make([]EarningItem, 0, query.Limit()+1)
	for rows.Next() {
		var (
			item                   EarningItem
			id, orderID            uuid.UUID
			payoutID               uuid.NullUUID
			gross, commission, net int64
			currency               string
			paidAt                 sql.NullTime
		)
		err = rows.Scan(&id, &orderID, &gross, &commission, &net, &currency, &item.Status, &payoutID, &item.CreatedAt, &paidAt)
		if err != nil {
			return GetEarningsHistoryResponse{}, errs.NewInfrastructureErrorWithCause("scan earning", err)
		}

		var errList [5]error
		item.ID, errList[0] = kernel.UUIDFromBytes(id[:])
		item.OrderID, errList[1] = kernel.UUIDFromBytes(orderID[:])
		item.Gross, errList[2] = kernel.NewMoney(gross, currency)
		item.Commission, errList[3] = kernel.NewMoney(commission, currency)
		item.Net, errList[4] = kernel.NewMoney(net, currency)
		if err = errors.Join(errList[:]...); err != nil {
			return GetEarningsHistoryResponse{}, err
		}
		if item.PayoutID, err = optionalUUID(payoutID); err != nil {
			return GetEarningsHistoryResponse{}, err
		}
		item.PaidAt = optionalTime(paidAt)

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return GetEarningsHistoryResponse{}, errs.NewInfrastructureErrorWithCause("earnings history", err)
	}

	resp := GetEarningsHistoryResponse{Earnings: items}
	if len(items) > query.Limit() {
		resp.Earnings = items[:query.Limit()]
		tail := resp.Earnings[len(resp.Earnings)-1]
		resp.NextCursor = cursor.Encode(cursor.Key{CreatedAt: tail.CreatedAt, ID: tail.ID})
	}

	return resp, nil
}

func optionalUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil //nolint:nilnil // NULL column
	}
	restored, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func optionalTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
