package runner

import (
	"container/list"
	"sync"
)

// Cache memoizes oracle outputs by input digest. It is an acceleration
// collaborator only: it must never change numerical results, and the
// runner works identically with Cache == nil. Keeping the policy outside
// the runner keeps corner logic cache-agnostic and independently testable.
type Cache interface {
	Get(digest string) (map[string]any, bool)
	Put(digest string, outputs map[string]any)
}

// CacheStats are counters for debugging and telemetry.
type CacheStats struct {
	Size      int   `json:"size"`
	Max       int   `json:"max"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// LRUCache is a fixed-capacity least-recently-used Cache. Safe for
// concurrent use.
type LRUCache struct {
	mu    sync.Mutex
	max   int
	order *list.List
	items map[string]*list.Element

	hits      int64
	misses    int64
	evictions int64
}

type lruEntry struct {
	digest  string
	outputs map[string]any
}

// NewLRUCache creates a cache holding at most max entries. A non-positive
// max falls back to 256, the evaluator's historical default.
func NewLRUCache(max int) *LRUCache {
	if max <= 0 {
		max = 256
	}
	return &LRUCache{
		max:   max,
		order: list.New(),
		items: make(map[string]*list.Element, max),
	}
}

// Get returns the memoized outputs for digest, marking the entry
// most-recently-used.
func (c *LRUCache) Get(digest string) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[digest]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).outputs, true
}

// Put stores outputs under digest, evicting the least-recently-used entry
// when the cache is full.
func (c *LRUCache) Put(digest string, outputs map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[digest]; ok {
		el.Value.(*lruEntry).outputs = outputs
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.max {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).digest)
			c.evictions++
		}
	}
	c.items[digest] = c.order.PushFront(&lruEntry{digest: digest, outputs: outputs})
}

// Stats returns a snapshot of the cache counters.
func (c *LRUCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Size:      c.order.Len(),
		Max:       c.max,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
