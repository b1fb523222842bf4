package queries

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/cursor"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// minScanBatch bounds how many rows one round trip reads. The bounding box
// admits its corners, so a batch may yield fewer matches than rows.
const minScanBatch = 50

// GetAvailableOrdersQueryHandler builds the driver's order feed.
//
// The driver's position comes from the location cache, falling back to the
// newest stored sample. With radius filtering on, SQL prefilters on the
// bounding box of the match radius and the AvailabilityMatcher makes the
// exact great-circle decision. The cursor names the last order returned, so
// orders claimed or registered between pages never shift the window.
type GetAvailableOrdersQueryHandler struct {
	db      *gorm.DB
	cache   ports.LocationCache
	zones   ports.ZoneConfigProvider
	matcher services.AvailabilityMatcher
}

// NewGetAvailableOrdersQueryHandler accepts a nil cache, in which case every
// lookup goes to the database.
func NewGetAvailableOrdersQueryHandler(
	db *gorm.DB,
	cache ports.LocationCache,
	zones ports.ZoneConfigProvider,
) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{
		db:      db,
		cache:   cache,
		zones:   zones,
		matcher: services.NewAvailabilityMatcher(),
	}
}

func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) (GetAvailableOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailableOrdersResponse{}, err
	}

	cfg, err := h.zones.Current(ctx)
	if err != nil {
		return GetAvailableOrdersResponse{}, err
	}

	driverAt, err := h.driverLocation(ctx, query.DriverID())
	if err != nil {
		return GetAvailableOrdersResponse{}, err
	}

	var box *kernel.BoundingBox
	if cfg.RadiusFilterEnabled() {
		b, boxErr := driverAt.BoundingBox(cfg.MatchRadiusKm())
		if boxErr != nil {
			return GetAvailableOrdersResponse{}, boxErr
		}
		box = &b
	}

	limit := query.Limit()
	batch := max(2*limit, minScanBatch)
	after := query.page.After()
	orders := make([]AvailableOrder, 0, limit)

	// One extra match tells whether another page exists.
	for len(orders) <= limit {
		scanned, matched, scanErr := h.scan(ctx, driverAt, cfg, box, after, batch)
		if scanErr != nil {
			return GetAvailableOrdersResponse{}, scanErr
		}
		orders = append(orders, matched...)

		if len(scanned) < batch {
			break
		}
		last := scanned[len(scanned)-1]
		after = &last
	}

	resp := GetAvailableOrdersResponse{Orders: orders}
	if len(orders) > limit {
		resp.Orders = orders[:limit]
		tail := resp.Orders[limit-1]
		resp.NextCursor = cursor.Encode(cursor.Key{CreatedAt: tail.CreatedAt, ID: tail.ID})
	}

	return resp, nil
}

// scan reads one batch after the given key and returns the keys it read
// along with the eligible orders among them.
func (h GetAvailableOrdersQueryHandler) scan(
	ctx context.Context,
	driverAt kernel.GeoPoint,
	cfg zone.Config,
	box *kernel.BoundingBox,
	after *cursor.Key,
	batch int,
) ([]cursor.Key, []AvailableOrder, error) {
	var sql strings.Builder
	sql.WriteString(`
		SELECT
			id,
			status,
			driver_id,
			pickup_lat,
			pickup_lng,
			dropoff_lat,
			dropoff_lng,
			total_amount,
			delivery_fee,
			currency,
			created_at
		FROM orders
		WHERE status = ? AND driver_id IS NULL`)
	args := []any{order.AwaitingDriver.String()}

	if after != nil {
		sql.WriteString(` AND (created_at, id) > (?, ?)`)
		args = append(args, after.CreatedAt, after.ID.Bytes())
	}
	if box != nil {
		sql.WriteString(` AND pickup_lat BETWEEN ? AND ? AND pickup_lng BETWEEN ? AND ?`)
		args = append(args, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	}
	sql.WriteString(`
		ORDER BY created_at, id
		LIMIT ?`)
	args = append(args, batch)

	rows, err := h.db.WithContext(ctx).Raw(sql.String(), args...).Rows()
	if err != nil {
		return nil, nil, errs.NewInfrastructureErrorWithCause("list available orders", err)
	}
	defer rows.Close()

	var (
		keys    []cursor.Key
		matched []AvailableOrder
	)
	for rows.Next() {
		var (
			row                                    AvailableOrder
			id                                     uuid.UUID
			driverID                               uuid.NullUUID
			status, currency                       string
			pickupLat, pickupLng, dropLat, dropLng float64
			total, fee                             int64
		)

		err = rows.Scan(
			&id,
			&status,
			&driverID,
			&pickupLat,
			&pickupLng,
			&dropLat,
			&dropLng,
			&total,
			&fee,
			&currency,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, nil, errs.NewInfrastructureErrorWithCause("scan available order", err)
		}

		if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, nil, err
		}
		keys = append(keys, cursor.Key{CreatedAt: row.CreatedAt, ID: row.ID})

		var st order.Status
		if st, err = order.ParseStatus(status); err != nil {
			return nil, nil, err
		}
		if err = fillAvailableOrder(&row, pickupLat, pickupLng, dropLat, dropLng, total, fee, currency); err != nil {
			return nil, nil, err
		}

		m, matchErr := h.matcher.Match(driverAt, services.Candidate{
			Status:    st,
			HasDriver: driverID.Valid,
			Pickup:    row.Pickup,
		}, cfg)
		if matchErr != nil {
			return nil, nil, matchErr
		}
		if !m.Eligible {
			continue
		}

		row.DistanceKm = m.DistanceKm
		matched = append(matched, row)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, errs.NewInfrastructureErrorWithCause("list available orders", err)
	}

	return keys, matched, nil
}

func fillAvailableOrder(
	row *AvailableOrder,
	pickupLat, pickupLng, dropLat, dropLng float64,
	total, fee int64,
	currency string,
) error {
	var err1, err2, err3, err4 error
	row.Pickup, err1 = kernel.NewGeoPoint(pickupLat, pickupLng)
	row.Dropoff, err2 = kernel.NewGeoPoint(dropLat, dropLng)
	row.Total, err3 = kernel.NewMoney(total, currency)
	row.DeliveryFee, err4 = kernel.NewMoney(fee, currency)
	return errors.Join(err1, err2, err3, err4)
}

func (h GetAvailableOrdersQueryHandler) driverLocation(ctx context.Context, driverID kernel.UUID) (kernel.GeoPoint, error) {
	if h.cache != nil {
		// A cache failure is the same as a miss.
		if sample, err := h.cache.Get(ctx, driverID); err == nil {
			return sample.Point(), nil
		}
	}

	var lat, lng float64
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT lat, lng
		FROM driver_locations
		WHERE driver_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, driverID.Bytes()).Rows()
	if err != nil {
		return kernel.GeoPoint{}, errs.NewInfrastructureErrorWithCause("latest driver location", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return kernel.GeoPoint{}, errs.NewInfrastructureErrorWithCause("latest driver location", err)
		}
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("driver location", driverID)
	}
	if err = rows.Scan(&lat, &lng); err != nil {
		return kernel.GeoPoint{}, errs.NewInfrastructureErrorWithCause("scan driver location", err)
	}

	return kernel.NewGeoPoint(lat, lng)
}
