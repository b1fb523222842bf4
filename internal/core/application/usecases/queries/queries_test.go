package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"available orders", queries.GetAvailableOrdersQuery{}.Validate(), queries.ErrGetAvailableOrdersQueryIsNotConstructed},
		{"driver by user", queries.GetDriverByUserQuery{}.Validate(), queries.ErrGetDriverByUserQueryIsNotConstructed},
		{"earnings summary", queries.GetEarningsSummaryQuery{}.Validate(), queries.ErrGetEarningsSummaryQueryIsNotConstructed},
		{"earnings history", queries.GetEarningsHistoryQuery{}.Validate(), queries.ErrGetEarningsHistoryQueryIsNotConstructed},
		{"list payouts", queries.ListPayoutsQuery{}.Validate(), queries.ErrListPayoutsQueryIsNotConstructed},
		{"reconcile", queries.ReconcileQuery{}.Validate(), queries.ErrReconcileQueryIsNotConstructed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}

func TestNewGetAvailableOrdersQuery_DefaultLimit(t *testing.T) {
	query, err := queries.NewGetAvailableOrdersQuery(kernel.NewUUID(), "", 0)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, queries.DefaultPageLimit, query.Limit())
}

func TestNewGetAvailableOrdersQuery_LimitOutOfRange(t *testing.T) {
	for _, limit := range []int{-1, queries.MaxPageLimit + 1} {
		_, err := queries.NewGetAvailableOrdersQuery(kernel.NewUUID(), "", limit)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	}
}

func TestNewGetAvailableOrdersQuery_BadCursor(t *testing.T) {
	_, err := queries.NewGetAvailableOrdersQuery(kernel.NewUUID(), "not a cursor", 10)

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewGetAvailableOrdersQuery_MissingDriver(t *testing.T) {
	_, err := queries.NewGetAvailableOrdersQuery(kernel.UUID{}, "", 10)

	assert.Error(t, err)
}

func TestNewGetEarningsHistoryQuery_Valid(t *testing.T) {
	driverID := kernel.NewUUID()

	query, err := queries.NewGetEarningsHistoryQuery(driverID, "", 5)

	require.NoError(t, err)
	assert.True(t, query.DriverID().IsEqual(driverID))
	assert.Equal(t, 5, query.Limit())
}

func TestNewListPayoutsQuery_Filters(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	paid := payout.Paid
	unknown := payout.Unknown

	_, err := queries.NewListPayoutsQuery(queries.PayoutFilter{Status: &paid, CreatedFrom: &from, CreatedTo: &to}, "", 0)
	require.NoError(t, err)

	_, err = queries.NewListPayoutsQuery(queries.PayoutFilter{CreatedFrom: &to, CreatedTo: &from}, "", 0)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewListPayoutsQuery(queries.PayoutFilter{Status: &unknown}, "", 0)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestReconcileResponse_Balanced(t *testing.T) {
	resp := queries.ReconcileResponse{Currencies: []queries.CurrencyReconciliation{
		{Currency: "EUR", Balanced: true},
		{Currency: "USD", Balanced: true},
	}}
	assert.True(t, resp.Balanced())

	resp.Currencies[1].Balanced = false
	assert.False(t, resp.Balanced())
}
