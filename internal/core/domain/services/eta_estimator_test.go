package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestETAEstimator_ExpectedDeliveryAt(t *testing.T) {
	estimator := services.NewETAEstimator()
	cfg := zoneConfig(t, "10", 5, true) // 30 km/h

	// pickup to drop-off is about 11.12 km, 22.2 minutes at 30 km/h
	o := newOrder(t, point(t, 0, 0), point(t, 0, 0.1), 1000)

	t.Run("without driver position", func(t *testing.T) {
		eta, err := estimator.ExpectedDeliveryAt(nil, o, cfg, now)

		require.NoError(t, err)
		assert.InDelta(t, 22.2, eta.Sub(now).Minutes(), 0.1)
	})

	t.Run("adds the leg to the pickup", func(t *testing.T) {
		driverAt := point(t, 0, -0.1)
		eta, err := estimator.ExpectedDeliveryAt(&driverAt, o, cfg, now)

		require.NoError(t, err)
		assert.InDelta(t, 44.5, eta.Sub(now).Minutes(), 0.1)
		assert.Equal(t, time.UTC, eta.Location())
	})
}
