package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "123")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("driver", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: driver, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("ValueIsRequired", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("reason")

		assert.Equal(t, "value is required: reason", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("ValueIsRequiredWithCause", func(t *testing.T) {
		err := errs.NewValueIsRequiredErrorWithCause("reason", errors.New("blank"))

		assert.Equal(t, "value is required: reason (cause: blank)", err.Error())
	})

	t.Run("ValueIsInvalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("currency", errors.New("must be 3 letters"))

		assert.Equal(t, "value is invalid: currency (cause: must be 3 letters)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("ValueIsOutOfRange", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 91.5, -90, 90)

		assert.Equal(t, "value is invalid: 91.5 is lat, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("ValueIsOutOfRange sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestEngineErrors(t *testing.T) {
	t.Run("ConflictError", func(t *testing.T) {
		err := errs.NewConflictError("order", "already claimed")

		assert.Equal(t, "conflict: order: already claimed", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("ConflictErrorWithCause", func(t *testing.T) {
		err := errs.NewConflictErrorWithCause("earning", "duplicate order", errors.New("unique violation"))

		assert.Equal(t, "conflict: earning: duplicate order (cause: unique violation)", err.Error())
	})

	t.Run("InvalidTransitionError", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("pickup", "AWAITING_DRIVER")

		assert.Equal(t, "invalid transition: cannot pickup from state AWAITING_DRIVER", err.Error())
		assert.Equal(t, "pickup", err.Action)
		assert.Equal(t, "AWAITING_DRIVER", err.State)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("EmptyError", func(t *testing.T) {
		err := errs.NewEmptyError("pending earnings")

		assert.Equal(t, "nothing to process: no pending earnings", err.Error())
		require.ErrorIs(t, err, errs.ErrEmpty)
	})

	t.Run("UnauthorizedError", func(t *testing.T) {
		err := errs.NewUnauthorizedError("driver 42", "is not assigned to this order")

		assert.Equal(t, "unauthorized: driver 42 is not assigned to this order", err.Error())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("InfrastructureError", func(t *testing.T) {
		err := errs.NewInfrastructureErrorWithCause("load order", errors.New("timeout"))

		assert.Equal(t, "infrastructure failure: load order (cause: timeout)", err.Error())
		require.ErrorIs(t, err, errs.ErrInfrastructure)
	})
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("accept order: %w", errs.NewConflictError("order", "already claimed"))

	require.ErrorIs(t, wrapped, errs.ErrConflict)

	var conflict *errs.ConflictError
	require.ErrorAs(t, wrapped, &conflict)
	assert.Equal(t, "order", conflict.Resource)
}
