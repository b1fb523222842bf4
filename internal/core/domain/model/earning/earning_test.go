package earning_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/earning"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func usd(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor, "USD")
	require.NoError(t, err)
	return m
}

func newPending(t *testing.T) *earning.Earning {
	t.Helper()
	e, err := earning.NewEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), usd(t, 1000), usd(t, 100), now)
	require.NoError(t, err)
	return e
}

func TestNewEarning(t *testing.T) {
	t.Run("net is gross minus commission", func(t *testing.T) {
		e := newPending(t)

		require.NoError(t, e.Validate())
		assert.Equal(t, int64(900), e.Net().Amount())
		assert.Equal(t, earning.Pending, e.Status())
		assert.Nil(t, e.PayoutID())
	})

	t.Run("commission above gross is rejected", func(t *testing.T) {
		_, err := earning.NewEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), usd(t, 100), usd(t, 101), now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("currencies must match", func(t *testing.T) {
		eur, err := kernel.NewMoney(10, "EUR")
		require.NoError(t, err)

		_, err = earning.NewEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), usd(t, 100), eur, now)
		require.ErrorIs(t, err, kernel.ErrCurrencyMismatch)
	})

	t.Run("ids are required", func(t *testing.T) {
		_, err := earning.NewEarning(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), usd(t, 100), usd(t, 10), now)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestEarning_Payout(t *testing.T) {
	t.Run("attach then pay", func(t *testing.T) {
		e := newPending(t)
		payoutID := kernel.NewUUID()

		require.NoError(t, e.AttachToPayout(payoutID))
		assert.Equal(t, earning.Pending, e.Status())
		require.NoError(t, e.AttachToPayout(payoutID))

		require.NoError(t, e.MarkPaid(payoutID, now))
		assert.Equal(t, earning.Paid, e.Status())
		assert.True(t, e.PayoutID().IsEqual(payoutID))
		require.NotNil(t, e.PaidAt())
	})

	t.Run("unbatched earning can be paid directly", func(t *testing.T) {
		e := newPending(t)
		require.NoError(t, e.MarkPaid(kernel.NewUUID(), now))
	})

	t.Run("paid earning is immutable", func(t *testing.T) {
		e := newPending(t)
		payoutID := kernel.NewUUID()
		require.NoError(t, e.MarkPaid(payoutID, now))

		require.ErrorIs(t, e.MarkPaid(payoutID, now), errs.ErrInvalidTransition)
		require.ErrorIs(t, e.AttachToPayout(kernel.NewUUID()), errs.ErrInvalidTransition)
		assert.True(t, e.PayoutID().IsEqual(payoutID))
	})

	t.Run("cannot move to another payout", func(t *testing.T) {
		e := newPending(t)
		require.NoError(t, e.AttachToPayout(kernel.NewUUID()))

		require.ErrorIs(t, e.AttachToPayout(kernel.NewUUID()), errs.ErrConflict)
		require.ErrorIs(t, e.MarkPaid(kernel.NewUUID(), now), errs.ErrConflict)
	})
}

func TestRestoreEarning(t *testing.T) {
	payoutID := kernel.NewUUID()
	paidAt := now
	base := earning.RestoreParams{
		ID:         kernel.NewUUID(),
		DriverID:   kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		Gross:      usd(t, 1005),
		Commission: usd(t, 101),
		Net:        usd(t, 904),
		Status:     earning.Paid,
		PayoutID:   &payoutID,
		CreatedAt:  now,
		PaidAt:     &paidAt,
	}

	t.Run("consistent row", func(t *testing.T) {
		e, err := earning.RestoreEarning(base)
		require.NoError(t, err)
		assert.Equal(t, earning.Paid, e.Status())
	})

	t.Run("tampered net", func(t *testing.T) {
		p := base
		p.Net = usd(t, 905)
		_, err := earning.RestoreEarning(p)
		require.ErrorIs(t, err, earning.ErrNetMismatch)
	})

	t.Run("paid without payout", func(t *testing.T) {
		p := base
		p.PayoutID = nil
		_, err := earning.RestoreEarning(p)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestStatus(t *testing.T) {
	for _, s := range []earning.Status{earning.Pending, earning.Paid} {
		parsed, err := earning.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := earning.ParseStatus("VOID")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, earning.Unknown.Validate())
}
