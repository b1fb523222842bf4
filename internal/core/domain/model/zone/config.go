// Package zone holds the per-zone commercial and matching settings.
package zone

import (
	"errors"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxMatchRadiusKm = 500.0

// ErrConfigIsNotConstructed is returned when a zero Config is used.
var ErrConfigIsNotConstructed = errs.NewValueIsRequiredError("zone config must be created via NewConfig")

// Config is an immutable snapshot of the settings that apply to one zone.
// Callers read it once per operation and pass it down.
type Config struct {
	currency            string
	commissionRate      kernel.Rate
	matchRadiusKm       float64
	radiusFilterEnabled bool
	averageSpeedKmh     float64
	guard               guard.ConstructorGuard
}

// NewConfig validates a zone snapshot.
//
// Example:
//
//	rate, _ := kernel.ParsePercent("10")
//	cfg, err := zone.NewConfig("USD", rate, 5, true, 25)
func NewConfig(
	currency string,
	commissionRate kernel.Rate,
	matchRadiusKm float64,
	radiusFilterEnabled bool,
	averageSpeedKmh float64,
) (Config, error) {
	if _, err := kernel.ZeroMoney(currency); err != nil {
		return Config{}, err
	}

	var err error
	if e := commissionRate.Validate(); e != nil {
		err = errors.Join(err, e)
	}
	if math.IsNaN(matchRadiusKm) || matchRadiusKm <= 0 || matchRadiusKm > maxMatchRadiusKm {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("match radius km", matchRadiusKm, 0, maxMatchRadiusKm))
	}
	if math.IsNaN(averageSpeedKmh) || averageSpeedKmh <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("average speed km/h", averageSpeedKmh, 0, math.Inf(1)))
	}
	if err != nil {
		return Config{}, err
	}

	return Config{
		currency:            currency,
		commissionRate:      commissionRate,
		matchRadiusKm:       matchRadiusKm,
		radiusFilterEnabled: radiusFilterEnabled,
		averageSpeedKmh:     averageSpeedKmh,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c Config) Validate() error {
	return c.guard.Validate(ErrConfigIsNotConstructed)
}

// Currency is the settlement currency of the zone.
func (c Config) Currency() string {
	return c.currency
}

func (c Config) CommissionRate() kernel.Rate {
	return c.commissionRate
}

func (c Config) MatchRadiusKm() float64 {
	return c.matchRadiusKm
}

// RadiusFilterEnabled is false when every awaiting order is offered to every driver.
func (c Config) RadiusFilterEnabled() bool {
	return c.radiusFilterEnabled
}

func (c Config) AverageSpeedKmh() float64 {
	return c.averageSpeedKmh
}
