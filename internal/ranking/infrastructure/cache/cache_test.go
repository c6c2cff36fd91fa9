package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache(t *testing.T) {
	var c ResultCache = NoopCache{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))

	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInMemoryCache_RoundTrip(t *testing.T) {
	c := NewInMemoryCache(time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte(`{"total_tasks":1}`)
	require.NoError(t, c.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"total_tasks":1}`, string(got))

	got[0] = 'y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, `{"total_tasks":1}`, string(again))
}

func TestInMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	c := NewInMemoryCache(5 * time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))

	now = now.Add(4 * time.Minute)
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Zero(t, c.Len())
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	c := NewInMemoryCache(0)
	c.now = func() time.Time { return time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	got, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestInMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewSizedInMemoryCache(2, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, c.Len())
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestNewSizedInMemoryCache_RejectsZeroSize(t *testing.T) {
	_, err := NewSizedInMemoryCache(0, time.Minute)
	assert.Error(t, err)
}
