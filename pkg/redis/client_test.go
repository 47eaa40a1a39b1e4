package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetNXAndExists(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := New(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	key := client.IdempotencyKey("pagadito", "ORDER-1|paid|tx")
	assert.Equal(t, "toko:idempotency:pagadito:ORDER-1|paid|tx", key)

	exists, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	set, err := client.SetNX(ctx, key, "1", time.Hour)
	require.NoError(t, err)
	assert.True(t, set)

	exists, err = client.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	set, err = client.SetNX(ctx, key, "1", time.Hour)
	require.NoError(t, err)
	assert.False(t, set)

	mr.FastForward(2 * time.Hour)
	set, err = client.SetNX(ctx, key, "1", time.Hour)
	require.NoError(t, err)
	assert.True(t, set)

	mr.FastForward(2 * time.Hour)
	exists, err = client.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)

	_, err = New(context.Background(), "not a url")
	assert.Error(t, err)
}
