// Package redis caches each driver's newest position for the availability
// feed.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix  = "driver:location:"
	DefaultTTL = 15 * time.Minute
)

// setIfNewer writes the hash only when it is newer than what is stored, so
// reports arriving out of order never roll a position back.
//
// KEYS[1] hash key
// ARGV    recorded_at (unix micros), lat, lng, bearing ("" for none),
//
//	sample id, ttl in milliseconds
var setIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'recorded_at')
if current and tonumber(current) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'recorded_at', ARGV[1], 'lat', ARGV[2], 'lng', ARGV[3], 'bearing', ARGV[4], 'sample_id', ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[6])
return 1
`)

// LocationCache stores one hash per driver that expires when the driver goes
// quiet, after which reads fall back to the database.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocationCache(client *redis.Client, ttl time.Duration) (*LocationCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LocationCache{client: client, ttl: ttl}, nil
}

var _ ports.LocationCache = (*LocationCache)(nil)

func (c *LocationCache) Set(ctx context.Context, sample *driver.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	bearing := ""
	if b := sample.Bearing(); b != nil {
		bearing = strconv.FormatFloat(*b, 'f', -1, 64)
	}

	err := setIfNewer.Run(ctx, c.client, []string{key(sample.DriverID())},
		sample.RecordedAt().UnixMicro(),
		strconv.FormatFloat(sample.Point().Lat(), 'f', -1, 64),
		strconv.FormatFloat(sample.Point().Lng(), 'f', -1, 64),
		bearing,
		sample.ID().String(),
		c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return errs.NewInfrastructureErrorWithCause("cache driver location", err)
	}
	return nil
}

func (c *LocationCache) Get(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error) {
	fields, err := c.client.HGetAll(ctx, key(driverID)).Result()
	if err != nil {
		return nil, errs.NewInfrastructureErrorWithCause("read cached driver location", err)
	}
	if len(fields) == 0 {
		return nil, errs.NewObjectNotFoundError("driver location", driverID)
	}

	sample, err := decode(driverID, fields)
	if err != nil {
		return nil, errs.NewInfrastructureErrorWithCause("decode cached driver location", err)
	}
	return sample, nil
}

func decode(driverID kernel.UUID, fields map[string]string) (*driver.LocationSample, error) {
	micros, err1 := strconv.ParseInt(fields["recorded_at"], 10, 64)
	lat, err2 := strconv.ParseFloat(fields["lat"], 64)
	lng, err3 := strconv.ParseFloat(fields["lng"], 64)
	id, err4 := kernel.UUIDFromString(fields["sample_id"])
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return nil, err
	}

	var bearing *float64
	if raw := fields["bearing"]; raw != "" {
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		bearing = &b
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}

	return driver.RestoreLocationSample(id, driverID, point, bearing, time.UnixMicro(micros).UTC())
}

func key(driverID kernel.UUID) string {
	return keyPrefix + driverID.String()
}
