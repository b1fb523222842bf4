package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordDriverLocationCommandIsNotConstructed = errors.New(
	"RecordDriverLocationCommand must be created via NewRecordDriverLocationCommand constructor",
)

// RecordDriverLocationCommand appends one position report.
type RecordDriverLocationCommand struct {
	sample *driver.LocationSample

	guard guard.ConstructorGuard
}

// NewRecordDriverLocationCommand validates the report. A zero recordedAt,
// or one ahead of the server clock, is replaced by now.
func NewRecordDriverLocationCommand(
	driverID kernel.UUID,
	point kernel.GeoPoint,
	bearing *float64,
	recordedAt time.Time,
) (RecordDriverLocationCommand, error) {
	if now := time.Now(); recordedAt.IsZero() || recordedAt.After(now) {
		recordedAt = now
	}

	sample, err := driver.NewLocationSample(driverID, point, bearing, recordedAt)
	if err != nil {
		return RecordDriverLocationCommand{}, err
	}

	return RecordDriverLocationCommand{sample: sample, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordDriverLocationCommandIsNotConstructed)
}

func (c RecordDriverLocationCommand) Sample() *driver.LocationSample {
	return c.sample
}
