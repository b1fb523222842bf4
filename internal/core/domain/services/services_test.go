package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"

	"github.com/stretchr/testify/require"
)

const testCode = "4821"

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func usd(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor, "USD")
	require.NoError(t, err)
	return m
}

func zoneConfig(t *testing.T, percent string, radiusKm float64, filter bool) zone.Config {
	t.Helper()
	rate, err := kernel.ParsePercent(percent)
	require.NoError(t, err)
	cfg, err := zone.NewConfig("USD", rate, radiusKm, filter, 30)
	require.NoError(t, err)
	return cfg
}

func newOrder(t *testing.T, pickup, dropoff kernel.GeoPoint, fee int64) *order.Order {
	t.Helper()
	code, err := kernel.NewDeliveryCode(testCode)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), pickup, dropoff, usd(t, fee*10), usd(t, fee), code, now)
	require.NoError(t, err)
	return o
}
