package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.factory = adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WritesEventsToOutbox() {
	ctx := context.Background()
	o := suite.storedOrder(ctx)
	driverID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Accept(driverID, time.Now().Add(time.Hour), time.Now()))
	suite.Require().NoError(uow.OrderRepository().Claim(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Empty(loaded.DomainEvents())

	messages, err := outboxrepo.NewGormOutboxRepository(suite.db).ListUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(messages, 1)
	suite.Equal(order.EventAccepted, messages[0].EventName)
	suite.True(messages[0].AggregateID.IsEqual(o.ID()))

	var payload map[string]any
	suite.Require().NoError(json.Unmarshal(messages[0].Payload, &payload))
	suite.Equal(driverID.String(), payload["driver_id"])
	suite.Equal("ASSIGNED", payload["status"])
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChangesAndEvents() {
	ctx := context.Background()
	o := suite.storedOrder(ctx)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Accept(kernel.NewUUID(), time.Now().Add(time.Hour), time.Now()))
	suite.Require().NoError(uow.OrderRepository().Claim(ctx, loaded))
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.AwaitingDriver, stored.Status())

	messages, err := outboxrepo.NewGormOutboxRepository(suite.db).ListUnpublished(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(messages)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackAfterCommit_IsHarmless() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Dana", "", true)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	stored, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal("Dana", stored.Name())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestGetForUpdate_SerializesDriverDecisions() {
	ctx := context.Background()

	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Dana", "", true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().DriverRepository().Add(ctx, d))

	holder := suite.factory.Create()
	suite.Require().NoError(holder.Begin(ctx))
	_, err = holder.DriverRepository().GetForUpdate(ctx, d.ID())
	suite.Require().NoError(err)

	waiter := suite.factory.Create()
	suite.Require().NoError(waiter.Begin(ctx))

	lockCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = waiter.DriverRepository().GetForUpdate(lockCtx, d.ID())
	suite.Require().ErrorIs(err, errs.ErrInfrastructure)

	_ = waiter.Rollback(ctx)
	suite.Require().NoError(holder.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) storedOrder(ctx context.Context) *order.Order {
	pickup, _ := kernel.NewGeoPoint(43.2389, 76.8897)
	dropoff, _ := kernel.NewGeoPoint(43.2567, 76.9286)
	total, _ := kernel.NewMoney(12500, "USD")
	fee, _ := kernel.NewMoney(1000, "USD")
	code, err := kernel.NewDeliveryCode("4821")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), pickup, dropoff, total, fee, code, time.Now())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
