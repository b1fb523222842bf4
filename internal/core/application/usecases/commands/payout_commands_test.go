package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewApprovePayoutCommand(t *testing.T) {
	_, err := commands.NewApprovePayoutCommand(kernel.NewUUID(), " ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewApprovePayoutCommand(kernel.NewUUID(), " TRX-1 ")
	require.NoError(t, err)
	assert.Equal(t, "TRX-1", cmd.Reference())
}

func TestRequestPayoutCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	pending := []*earning.Earning{
		newPendingEarning(t, d.ID(), 1000, 100),
		newPendingEarning(t, d.ID(), 1500, 150),
	}
	r := newRepos()

	var created *payout.Payout
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(nil, errs.NewObjectNotFoundError("payout", d.ID())).Once(),
		r.earnings.On("ListPendingUnbatchedForUpdate", ctx, d.ID()).Return(pending, nil).Once(),
		r.payouts.On("Add", ctx, mock.AnythingOfType("*payout.Payout")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*payout.Payout) }).
			Return(nil).Once(),
		r.earnings.On("Update", ctx, mock.Anything).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewRequestPayoutCommand(d.ID())
	require.NoError(t, err)

	res, err := commands.NewRequestPayoutCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(2250), res.Amount.Amount())
	assert.Equal(t, 2, res.EarningsCount)
	assert.True(t, res.PayoutID.IsEqual(created.ID()))
	assert.Equal(t, payout.Pending, created.Status())
	for _, e := range pending {
		assert.Equal(t, earning.Pending, e.Status())
		require.NotNil(t, e.PayoutID())
		assert.True(t, e.PayoutID().IsEqual(created.ID()))
	}
	r.assertExpectations(t)
}

func TestRequestPayoutCommandHandler_Handle_PendingPayoutExists(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	existing, err := payout.NewPayout(kernel.NewUUID(), d.ID(), mustUSD(t, 900), time.Now())
	require.NoError(t, err)
	r := newRepos()

	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(existing, nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewRequestPayoutCommand(d.ID())
	require.NoError(t, err)

	_, err = commands.NewRequestPayoutCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	r.earnings.AssertNotCalled(t, "ListPendingUnbatchedForUpdate", mock.Anything, mock.Anything)
}

func TestRequestPayoutCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	r := newRepos()

	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(nil, errs.NewObjectNotFoundError("payout", d.ID())).Once(),
		r.earnings.On("ListPendingUnbatchedForUpdate", ctx, d.ID()).Return([]*earning.Earning{}, nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewRequestPayoutCommand(d.ID())
	require.NoError(t, err)

	_, err = commands.NewRequestPayoutCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrEmpty)
	r.payouts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestApprovePayoutCommandHandler_Handle_SettlesRequestedPayout(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	requested, err := payout.NewPayout(kernel.NewUUID(), d.ID(), mustUSD(t, 900), time.Now())
	require.NoError(t, err)

	batched := newPendingEarning(t, d.ID(), 1000, 100)
	require.NoError(t, batched.AttachToPayout(requested.ID()))
	late := newPendingEarning(t, d.ID(), 2000, 200)
	pending := []*earning.Earning{batched, late}

	r := newRepos()
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.earnings.On("ListPendingForUpdate", ctx, d.ID()).Return(pending, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(requested, nil).Once(),
		r.payouts.On("Update", ctx, requested).Return(nil).Once(),
		r.earnings.On("Update", ctx, mock.Anything).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewApprovePayoutCommand(d.ID(), "TRX-42")
	require.NoError(t, err)

	res, err := commands.NewApprovePayoutCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, res.PayoutID.IsEqual(requested.ID()))
	assert.Equal(t, int64(2700), res.Amount.Amount())
	assert.Equal(t, payout.Paid, requested.Status())
	assert.Equal(t, int64(2700), requested.Amount().Amount())
	assert.Equal(t, "TRX-42", requested.Reference())
	for _, e := range pending {
		assert.Equal(t, earning.Paid, e.Status())
		assert.True(t, e.PayoutID().IsEqual(requested.ID()))
	}
	require.Len(t, requested.DomainEvents(), 1)
	assert.Equal(t, payout.EventProcessed, requested.DomainEvents()[0].EventName())
	r.payouts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	r.assertExpectations(t)
}

func TestApprovePayoutCommandHandler_Handle_WithoutRequest(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	pending := []*earning.Earning{newPendingEarning(t, d.ID(), 1000, 100)}

	r := newRepos()
	var created *payout.Payout
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.earnings.On("ListPendingForUpdate", ctx, d.ID()).Return(pending, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(nil, errs.NewObjectNotFoundError("payout", d.ID())).Once(),
		r.payouts.On("Add", ctx, mock.AnythingOfType("*payout.Payout")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*payout.Payout) }).
			Return(nil).Once(),
		r.earnings.On("Update", ctx, mock.Anything).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewApprovePayoutCommand(d.ID(), "TRX-43")
	require.NoError(t, err)

	res, err := commands.NewApprovePayoutCommandHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, payout.Paid, created.Status())
	assert.Equal(t, int64(900), res.Amount.Amount())
	r.assertExpectations(t)
}

func TestApprovePayoutCommandHandler_Handle_NothingPending(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	r := newRepos()

	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.earnings.On("ListPendingForUpdate", ctx, d.ID()).Return([]*earning.Earning{}, nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewApprovePayoutCommand(d.ID(), "TRX-44")
	require.NoError(t, err)

	_, err = commands.NewApprovePayoutCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrEmpty)
}

func TestPayoutFlow_RequestThenApprove_PaysExactBalance(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)
	pending := []*earning.Earning{
		newPendingEarning(t, d.ID(), 1000, 100),
		newPendingEarning(t, d.ID(), 1600, 100),
	}

	requestRepos := newRepos()
	var requested *payout.Payout
	requestRepos.uow.On("Begin", ctx).Return(nil).Once()
	requestRepos.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	requestRepos.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(nil, errs.NewObjectNotFoundError("payout", d.ID())).Once()
	requestRepos.earnings.On("ListPendingUnbatchedForUpdate", ctx, d.ID()).Return(pending, nil).Once()
	requestRepos.payouts.On("Add", ctx, mock.AnythingOfType("*payout.Payout")).
		Run(func(args mock.Arguments) { requested = args.Get(1).(*payout.Payout) }).
		Return(nil).Once()
	requestRepos.earnings.On("Update", ctx, mock.Anything).Return(nil).Once()
	requestRepos.uow.On("Commit", ctx).Return(nil).Once()
	requestRepos.uow.On("Rollback", ctx).Return(nil).Once()

	requestFactory := new(MockPayoutUoWFactory)
	requestFactory.On("Create").Return(requestRepos.uow).Once()

	requestCmd, err := commands.NewRequestPayoutCommand(d.ID())
	require.NoError(t, err)
	res, err := commands.NewRequestPayoutCommandHandler(requestFactory).Handle(ctx, requestCmd)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), res.Amount.Amount())
	require.NotNil(t, requested)

	approveRepos := newRepos()
	approveRepos.uow.On("Begin", ctx).Return(nil).Once()
	approveRepos.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	approveRepos.earnings.On("ListPendingForUpdate", ctx, d.ID()).Return(pending, nil).Once()
	approveRepos.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(requested, nil).Once()
	approveRepos.payouts.On("Update", ctx, requested).Return(nil).Once()
	approveRepos.earnings.On("Update", ctx, mock.Anything).Return(nil).Once()
	approveRepos.uow.On("Commit", ctx).Return(nil).Once()
	approveRepos.uow.On("Rollback", ctx).Return(nil).Once()

	approveFactory := new(MockPayoutUoWFactory)
	approveFactory.On("Create").Return(approveRepos.uow).Once()

	approveCmd, err := commands.NewApprovePayoutCommand(d.ID(), "REF123")
	require.NoError(t, err)
	paid, err := commands.NewApprovePayoutCommandHandler(approveFactory).Handle(ctx, approveCmd)
	require.NoError(t, err)

	assert.Equal(t, int64(2400), paid.Amount.Amount())
	assert.Equal(t, payout.Paid, requested.Status())
	assert.Equal(t, "REF123", requested.Reference())

	var sum int64
	for _, e := range pending {
		assert.Equal(t, earning.Paid, e.Status())
		sum += e.Net().Amount()
	}
	assert.Equal(t, requested.Amount().Amount(), sum)
}

func TestRequestPayoutCommandHandler_Handle_MixedCurrencies(t *testing.T) {
	ctx := t.Context()
	d := newOnlineDriver(t)

	gross, err := kernel.NewMoney(45000, "KZT")
	require.NoError(t, err)
	commission, err := kernel.NewMoney(4500, "KZT")
	require.NoError(t, err)
	foreign, err := earning.NewEarning(kernel.NewUUID(), d.ID(), kernel.NewUUID(), gross, commission, time.Now())
	require.NoError(t, err)
	pending := []*earning.Earning{newPendingEarning(t, d.ID(), 1000, 100), foreign}

	r := newRepos()
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.drivers.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		r.payouts.On("GetPendingForDriver", ctx, d.ID()).Return(nil, errs.NewObjectNotFoundError("payout", d.ID())).Once(),
		r.earnings.On("ListPendingUnbatchedForUpdate", ctx, d.ID()).Return(pending, nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockPayoutUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewRequestPayoutCommand(d.ID())
	require.NoError(t, err)

	_, err = commands.NewRequestPayoutCommandHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	r.payouts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}
