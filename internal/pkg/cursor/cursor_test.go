package cursor_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/cursor"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EncodedKey(t *testing.T) {
	k := cursor.Key{CreatedAt: time.Date(2025, 3, 1, 10, 30, 0, 123456000, time.UTC), ID: kernel.NewUUID()}

	got, err := cursor.Decode(cursor.Encode(k))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.Equal(k.CreatedAt))
	assert.True(t, got.ID.IsEqual(k.ID))
}

func TestDecode_Empty(t *testing.T) {
	got, err := cursor.Decode("")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecode_Garbage(t *testing.T) {
	for _, token := range []string{"%%%", "bm90LWpzb24", "eyJ0IjoiMjAyNS0wMS0wMVQwMDowMDowMFoiLCJpIjoibm9wZSJ9"} {
		_, err := cursor.Decode(token)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid, token)
	}
}
