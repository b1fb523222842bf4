package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetDriverByUserQueryIsNotConstructed = errors.New(
		"GetDriverByUserQuery must be created via NewGetDriverByUserQuery constructor",
	)
)

// GetDriverByUserQuery resolves the driver profile behind an authenticated
// user id. Every driver-facing endpoint starts with it.
type GetDriverByUserQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDriverByUserQuery(userID kernel.UUID) (GetDriverByUserQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetDriverByUserQuery{}, err
	}
	return GetDriverByUserQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverByUserQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverByUserQueryIsNotConstructed)
}

func (q GetDriverByUserQuery) UserID() kernel.UUID {
	return q.userID
}

type GetDriverByUserResponse struct {
	ID         kernel.UUID
	UserID     kernel.UUID
	Name       string
	VehicleRef string
	IsOnline   bool
	IsVerified bool
}
