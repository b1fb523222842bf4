package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDriverByUserQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverByUserQueryHandler(db *gorm.DB) GetDriverByUserQueryHandler {
	return GetDriverByUserQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the user has no driver
// profile.
func (h GetDriverByUserQueryHandler) Handle(
	ctx context.Context,
	query GetDriverByUserQuery,
) (GetDriverByUserResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverByUserResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			name,
			vehicle_ref,
			is_online,
			is_verified
		FROM drivers
		WHERE user_id = ?
	`, query.UserID().Bytes()).Rows()
	if err != nil {
		return GetDriverByUserResponse{}, errs.NewInfrastructureErrorWithCause("get driver by user", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetDriverByUserResponse{}, errs.NewInfrastructureErrorWithCause("get driver by user", err)
		}
		return GetDriverByUserResponse{}, errs.NewObjectNotFoundError("driver for user", query.UserID())
	}

	var (
		resp       GetDriverByUserResponse
		id, userID uuid.UUID
	)
	if err = rows.Scan(&id, &userID, &resp.Name, &resp.VehicleRef, &resp.IsOnline, &resp.IsVerified); err != nil {
		return GetDriverByUserResponse{}, errs.NewInfrastructureErrorWithCause("scan driver", err)
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetDriverByUserResponse{}, err
	}
	if resp.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
		return GetDriverByUserResponse{}, err
	}

	return resp, nil
}
