package zone_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	rate, err := kernel.ParsePercent("12.5")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		cfg, err := zone.NewConfig("KZT", rate, 5, true, 25)

		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "KZT", cfg.Currency())
		assert.Equal(t, int64(1250), cfg.CommissionRate().BasisPoints())
		assert.InDelta(t, 5.0, cfg.MatchRadiusKm(), 0)
		assert.True(t, cfg.RadiusFilterEnabled())
	})

	t.Run("invalid values are joined", func(t *testing.T) {
		_, err := zone.NewConfig("USD", kernel.Rate{}, 0, false, -1)

		require.ErrorIs(t, err, kernel.ErrRateIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "match radius km")
		assert.Contains(t, err.Error(), "average speed")
	})

	t.Run("currency is checked", func(t *testing.T) {
		_, err := zone.NewConfig("dollars", rate, 5, true, 25)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero config", func(t *testing.T) {
		require.ErrorIs(t, zone.Config{}.Validate(), zone.ErrConfigIsNotConstructed)
	})
}
