package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jovianatlas/moonatlas/core"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache(t *testing.T) {
	const model = "text-embedding-ada-002"

	t.Run("miss on empty cache", func(t *testing.T) {
		cache := openTestCache(t)
		_, ok, err := cache.Get(core.IDFromContent("Io"), model)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		cache := openTestCache(t)
		id := core.IDFromContent("Io is volcanic.")
		vector := []float32{0.1, 0.2, 0.3}

		require.NoError(t, cache.Put(id, model, vector))

		got, ok, err := cache.Get(id, model)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, vector, got)
	})

	t.Run("model name partitions entries", func(t *testing.T) {
		cache := openTestCache(t)
		id := core.IDFromContent("Europa")
		require.NoError(t, cache.Put(id, model, []float32{1}))

		_, ok, err := cache.Get(id, "text-embedding-3-small")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put replaces prior value", func(t *testing.T) {
		cache := openTestCache(t)
		id := core.IDFromContent("Ganymede")
		require.NoError(t, cache.Put(id, model, []float32{1}))
		require.NoError(t, cache.Put(id, model, []float32{2}))

		got, ok, err := cache.Get(id, model)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []float32{2}, got)
	})
}
