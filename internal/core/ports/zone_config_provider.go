package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/zone"
)

// ZoneConfigProvider returns the zone settings in force right now.
type ZoneConfigProvider interface {
	Current(ctx context.Context) (zone.Config, error)
}
