package payoutrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/payoutrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type PayoutRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *payoutrepo.GormPayoutRepository
}

func (suite *PayoutRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *PayoutRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = payoutrepo.NewGormPayoutRepository(suite.db, tracker)
}

func (suite *PayoutRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestOnePendingPayoutPerDriver() {
	ctx := context.Background()
	driverID := kernel.NewUUID()

	suite.Require().NoError(suite.repository.Add(ctx, suite.newPayout(driverID, 900)))
	err := suite.repository.Add(ctx, suite.newPayout(driverID, 500))

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *PayoutRepositoryIntegrationTestSuite) TestSettle_ThenNoLongerPending() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	p := suite.newPayout(driverID, 900)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	loaded, err := suite.repository.GetPendingForDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(p.ID()))

	amount, err := kernel.NewMoney(1400, "USD")
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Settle(amount, "TRX-1", time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	_, err = suite.repository.GetPendingForDriver(ctx, driverID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().ErrorIs(suite.repository.Update(ctx, loaded), errs.ErrConflict)

	// a settled payout frees the slot for the next request
	suite.Require().NoError(suite.repository.Add(ctx, suite.newPayout(driverID, 100)))
}

func (suite *PayoutRepositoryIntegrationTestSuite) newPayout(driverID kernel.UUID, minor int64) *payout.Payout {
	amount, err := kernel.NewMoney(minor, "USD")
	suite.Require().NoError(err)
	p, err := payout.NewPayout(kernel.NewUUID(), driverID, amount, time.Now())
	suite.Require().NoError(err)
	return p
}

func TestPayoutRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PayoutRepositoryIntegrationTestSuite))
}
