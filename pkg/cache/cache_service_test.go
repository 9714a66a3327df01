package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("get after set", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "analytics:course:1", map[string]int{"enrolled": 3}, time.Minute))

		var got map[string]int
		require.NoError(t, c.Get(ctx, "analytics:course:1", &got))
		assert.Equal(t, 3, got["enrolled"])
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemoryCache()
		var got string
		assert.ErrorIs(t, c.Get(ctx, "nope", &got), ErrCacheMiss)
	})

	t.Run("invalidate pattern clears namespace only", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "analytics:course:1", 1, 0))
		require.NoError(t, c.Set(ctx, "analytics:revenue", 2, 0))
		require.NoError(t, c.Set(ctx, "notify:payment:o1", 3, 0))

		require.NoError(t, c.InvalidatePattern(ctx, "analytics:*"))

		var v int
		assert.ErrorIs(t, c.Get(ctx, "analytics:course:1", &v), ErrCacheMiss)
		assert.ErrorIs(t, c.Get(ctx, "analytics:revenue", &v), ErrCacheMiss)
		assert.NoError(t, c.Get(ctx, "notify:payment:o1", &v))
		assert.Equal(t, 3, v)
	})

	t.Run("setnx only once", func(t *testing.T) {
		c := NewMemoryCache()
		ok, err := c.SetNX(ctx, "notify:payment:o1", 1, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.SetNX(ctx, "notify:payment:o1", 1, time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entries behave as missing", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", 1, time.Nanosecond))
		time.Sleep(time.Millisecond)
		var v int
		assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
	})
}
