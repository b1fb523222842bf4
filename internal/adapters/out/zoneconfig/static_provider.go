// Package zoneconfig serves zone settings read once at startup.
package zoneconfig

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/ports"
)

// Settings is the raw form the settings arrive in from the environment.
type Settings struct {
	Currency              string
	CommissionRatePercent string
	MatchRadiusKm         float64
	RadiusFilterEnabled   bool
	AverageSpeedKmh       float64
}

// StaticProvider returns the same zone.Config for every call.
type StaticProvider struct {
	cfg zone.Config
}

// NewStaticProvider validates s up front so a misconfigured service fails at
// boot rather than on the first delivery.
func NewStaticProvider(s Settings) (*StaticProvider, error) {
	rate, err := kernel.ParsePercent(s.CommissionRatePercent)
	if err != nil {
		return nil, err
	}

	cfg, err := zone.NewConfig(s.Currency, rate, s.MatchRadiusKm, s.RadiusFilterEnabled, s.AverageSpeedKmh)
	if err != nil {
		return nil, err
	}

	return &StaticProvider{cfg: cfg}, nil
}

var _ ports.ZoneConfigProvider = (*StaticProvider)(nil)

func (p *StaticProvider) Current(context.Context) (zone.Config, error) {
	return p.cfg, nil
}
