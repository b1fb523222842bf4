package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Claim(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) HasActiveForDriver(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockLocationRepository struct{ mock.Mock }

func (m *MockLocationRepository) Append(ctx context.Context, s *driver.LocationSample) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockLocationRepository) Latest(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.LocationSample), args.Error(1)
}

type MockLocationCache struct{ mock.Mock }

func (m *MockLocationCache) Set(ctx context.Context, s *driver.LocationSample) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockLocationCache) Get(ctx context.Context, driverID kernel.UUID) (*driver.LocationSample, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.LocationSample), args.Error(1)
}

type MockLocationPublisher struct{ mock.Mock }

func (m *MockLocationPublisher) PublishLocation(ctx context.Context, s *driver.LocationSample) error {
	return m.Called(ctx, s).Error(0)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) Add(ctx context.Context, e *earning.Earning) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEarningRepository) Update(ctx context.Context, earnings ...*earning.Earning) error {
	return m.Called(ctx, earnings).Error(0)
}

func (m *MockEarningRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEarningRepository) ListPendingUnbatchedForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*earning.Earning), args.Error(1)
}

func (m *MockEarningRepository) ListPendingForUpdate(ctx context.Context, driverID kernel.UUID) ([]*earning.Earning, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*earning.Earning), args.Error(1)
}

type MockPayoutRepository struct{ mock.Mock }

func (m *MockPayoutRepository) Add(ctx context.Context, p *payout.Payout) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPayoutRepository) Update(ctx context.Context, p *payout.Payout) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPayoutRepository) GetPendingForDriver(ctx context.Context, driverID kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.Payout), args.Error(1)
}

type MockZoneConfigProvider struct{ mock.Mock }

func (m *MockZoneConfigProvider) Current(ctx context.Context) (zone.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(zone.Config), args.Error(1)
}

// MockUoW satisfies every composed unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

func (m *MockUoW) LocationRepository() ports.LocationRepository {
	return m.Called().Get(0).(ports.LocationRepository)
}

func (m *MockUoW) EarningRepository() ports.EarningRepository {
	return m.Called().Get(0).(ports.EarningRepository)
}

func (m *MockUoW) PayoutRepository() ports.PayoutRepository {
	return m.Called().Get(0).(ports.PayoutRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	return m.Called().Get(0).(commands.DriverUoW)
}

type MockLocationUoWFactory struct{ mock.Mock }

func (m *MockLocationUoWFactory) Create() commands.LocationUoW {
	return m.Called().Get(0).(commands.LocationUoW)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return m.Called().Get(0).(commands.FulfillmentUoW)
}

type MockPayoutUoWFactory struct{ mock.Mock }

func (m *MockPayoutUoWFactory) Create() commands.PayoutUoW {
	return m.Called().Get(0).(commands.PayoutUoW)
}

// repos bundles one mock of each repository behind a single MockUoW.
type repos struct {
	uow       *MockUoW
	orders    *MockOrderRepository
	drivers   *MockDriverRepository
	locations *MockLocationRepository
	earnings  *MockEarningRepository
	payouts   *MockPayoutRepository
}

func newRepos() repos {
	r := repos{
		uow:       new(MockUoW),
		orders:    new(MockOrderRepository),
		drivers:   new(MockDriverRepository),
		locations: new(MockLocationRepository),
		earnings:  new(MockEarningRepository),
		payouts:   new(MockPayoutRepository),
	}
	r.uow.On("OrderRepository").Return(r.orders).Maybe()
	r.uow.On("DriverRepository").Return(r.drivers).Maybe()
	r.uow.On("LocationRepository").Return(r.locations).Maybe()
	r.uow.On("EarningRepository").Return(r.earnings).Maybe()
	r.uow.On("PayoutRepository").Return(r.payouts).Maybe()
	return r
}

func (r repos) assertExpectations(t *testing.T) {
	t.Helper()
	r.uow.AssertExpectations(t)
	r.orders.AssertExpectations(t)
	r.drivers.AssertExpectations(t)
	r.locations.AssertExpectations(t)
	r.earnings.AssertExpectations(t)
	r.payouts.AssertExpectations(t)
}

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func mustUSD(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor, "USD")
	require.NoError(t, err)
	return m
}

func testZone(t *testing.T) zone.Config {
	t.Helper()
	rate, err := kernel.ParsePercent("10")
	require.NoError(t, err)
	cfg, err := zone.NewConfig("USD", rate, 5, true, 30)
	require.NoError(t, err)
	return cfg
}

const testCode = "4821"

func newAwaitingOrder(t *testing.T) *order.Order {
	t.Helper()
	code, err := kernel.NewDeliveryCode(testCode)
	require.NoError(t, err)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		mustPoint(t, 43.2389, 76.8897),
		mustPoint(t, 43.2567, 76.9286),
		mustUSD(t, 12500),
		mustUSD(t, 1000),
		code,
		time.Now().Add(-time.Hour),
	)
	require.NoError(t, err)
	return o
}

func newAssignedOrder(t *testing.T, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := newAwaitingOrder(t)
	now := time.Now()
	require.NoError(t, o.Accept(driverID, now.Add(30*time.Minute), now))
	o.ClearDomainEvents()
	return o
}

func newOutForDeliveryOrder(t *testing.T, driverID kernel.UUID) *order.Order {
	t.Helper()
	o := newAssignedOrder(t, driverID)
	require.NoError(t, o.Pickup(driverID, time.Now()))
	require.NoError(t, o.StartDelivery(driverID, time.Now()))
	o.ClearDomainEvents()
	return o
}

func newOnlineDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Aigerim Sadykova", "KZ 123 ABC", true)
	require.NoError(t, err)
	require.NoError(t, d.SetAvailability(true))
	return d
}

func newPendingEarning(t *testing.T, driverID kernel.UUID, gross, commission int64) *earning.Earning {
	t.Helper()
	e, err := earning.NewEarning(kernel.NewUUID(), driverID, kernel.NewUUID(), mustUSD(t, gross), mustUSD(t, commission), time.Now())
	require.NoError(t, err)
	return e
}
