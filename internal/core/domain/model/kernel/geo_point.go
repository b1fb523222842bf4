package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when a zero GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is a WGS84 latitude/longitude pair in degrees. Pickup and drop-off
// addresses and driver location samples are all GeoPoints.
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates.
//
// Example:
//
//	pickup, err := kernel.NewGeoPoint(43.2389, 76.8897)
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceKm returns the great-circle (haversine) distance to other.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(p.lat)
	lat2 := degreesToRadians(other.lat)
	dLat := lat2 - lat1
	dLng := degreesToRadians(other.lng - p.lng)

	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// BoundingBox is a lat/lng rectangle that contains every point within a
// radius of its centre. It is only a prefilter: corners are farther than the
// radius, so callers still check DistanceKm.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns the rectangle enclosing the circle of radiusKm around p.
// Near the poles, or when the circle would wrap the antimeridian, the
// longitude range widens to the full [-180, 180].
func (p GeoPoint) BoundingBox(radiusKm float64) (BoundingBox, error) {
	if err := p.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if radiusKm < 0 {
		return BoundingBox{}, errs.NewValueIsOutOfRangeError("radius_km", radiusKm, 0, math.Inf(1))
	}

	dLat := radiusKm / earthRadiusKm * 180 / math.Pi
	box := BoundingBox{
		MinLat: math.Max(p.lat-dLat, MinLatitude),
		MaxLat: math.Min(p.lat+dLat, MaxLatitude),
		MinLng: MinLongitude,
		MaxLng: MaxLongitude,
	}

	cosLat := math.Cos(degreesToRadians(p.lat))
	if box.MinLat == MinLatitude || box.MaxLat == MaxLatitude || cosLat < 1e-9 {
		return box, nil
	}

	dLng := dLat / cosLat
	if p.lng-dLng < MinLongitude || p.lng+dLng > MaxLongitude {
		return box, nil
	}

	box.MinLng = p.lng - dLng
	box.MaxLng = p.lng + dLng
	return box, nil
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}
	p.lng = lng
	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
