package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "labels:fr", `{"skills":"Compétences"}`, time.Minute))
	require.NoError(t, c.Set(ctx, "forever", "x", 0))

	v, err := c.Get(ctx, "labels:fr")
	require.NoError(t, err)
	assert.Equal(t, `{"skills":"Compétences"}`, v)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "labels:fr")
	assert.ErrorIs(t, err, ErrMiss)

	v, err = c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	require.NoError(t, c.Delete(ctx, "forever"))
	_, err = c.Get(ctx, "forever")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheRequiresURL(t *testing.T) {
	_, err := NewRedisCache("", "labels")
	assert.Error(t, err)

	_, err = NewRedisCache("not a url", "labels")
	assert.Error(t, err)
}

func TestRedisKeyPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(nil, "labels")
	assert.Equal(t, "labels:fr", c.key("fr"))
}
