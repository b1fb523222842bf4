package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveredOrder(t *testing.T, fee int64, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrder(t, point(t, 0, 0), point(t, 0, 0.05), fee)
	require.NoError(t, o.Accept(driverID, now.Add(time.Hour), now))
	require.NoError(t, o.Pickup(driverID, now))
	require.NoError(t, o.StartDelivery(driverID, now))
	require.NoError(t, o.Deliver(driverID, testCode, now))
	return o
}

func TestEarningsAccrual_Accrue(t *testing.T) {
	accrual := services.NewEarningsAccrual()
	driverID := kernel.NewUUID()

	tests := []struct {
		name       string
		fee        int64
		percent    string
		commission int64
		net        int64
	}{
		{"ten percent", 1000, "10", 100, 900},
		{"half rounds up once", 1005, "10", 101, 904},
		{"fractional rate", 999, "12.5", 125, 874},
		{"no commission", 1000, "0", 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := deliveredOrder(t, tt.fee, driverID)
			rate, err := kernel.ParsePercent(tt.percent)
			require.NoError(t, err)

			e, err := accrual.Accrue(o, rate, now)

			require.NoError(t, err)
			assert.Equal(t, earning.Pending, e.Status())
			assert.True(t, e.DriverID().IsEqual(driverID))
			assert.True(t, e.OrderID().IsEqual(o.ID()))
			assert.Equal(t, tt.fee, e.Gross().Amount())
			assert.Equal(t, tt.commission, e.Commission().Amount())
			assert.Equal(t, tt.net, e.Net().Amount())
			assert.Equal(t, e.Gross().Amount(), e.Commission().Amount()+e.Net().Amount())
		})
	}

	t.Run("undelivered order accrues nothing", func(t *testing.T) {
		o := newOrder(t, point(t, 0, 0), point(t, 0, 0.05), 1000)
		rate, err := kernel.ParsePercent("10")
		require.NoError(t, err)

		_, err = accrual.Accrue(o, rate, now)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
