package runner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCacheGetPut(t *testing.T) {
	c := NewLRUCache(4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	out := map[string]any{"q": 11.0}
	c.Put("k1", out)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, out, got)
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache(2)
	c.Put("a", map[string]any{"v": int64(1)})
	c.Put("b", map[string]any{"v": int64(2)})

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", map[string]any{"v": int64(3)})

	_, ok = c.Get("b")
	assert.False(t, ok, "least-recently-used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)

	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestLRUCachePutExistingUpdates(t *testing.T) {
	c := NewLRUCache(2)
	c.Put("k", map[string]any{"v": int64(1)})
	c.Put("k", map[string]any{"v": int64(2)})

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, int64(2), got["v"])
	assert.Equal(t, 1, c.Stats().Size)
}

func TestLRUCacheDefaultCapacity(t *testing.T) {
	assert.Equal(t, 256, NewLRUCache(0).Stats().Max)
	assert.Equal(t, 256, NewLRUCache(-5).Stats().Max)
	assert.Equal(t, 8, NewLRUCache(8).Stats().Max)
}

func TestLRUCacheStatsCounters(t *testing.T) {
	c := NewLRUCache(4)
	c.Put("a", map[string]any{})

	c.Get("a")
	c.Get("a")
	c.Get("nope")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache(32)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", (g+i)%40)
				c.Put(key, map[string]any{"v": int64(i)})
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Size, 32)
}
