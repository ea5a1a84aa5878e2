package memory

import (
	"sync"
	"time"
)

// DefaultTTL is how long a search page stays fresh.
const DefaultTTL = 15 * time.Minute

// DefaultCapacity is the entry count above which Set sweeps expired entries.
const DefaultCapacity = 1000

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is an in-process map with per-entry expiry. Capacity is soft:
// exceeding it only triggers removal of expired entries, so live entries are
// never evicted and the map can grow past the bound.
type TTLCache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewTTLCache[V any](ttl time.Duration, capacity int) *TTLCache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TTLCache[V]{
		entries:  make(map[string]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *TTLCache[V]) WithClock(now func() time.Time) *TTLCache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the value stored under key. An entry older than the TTL is
// deleted and reported as absent.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.expired(e, c.now()) {
		delete(c.entries, key)
		return zero, false
	}

	return e.value, true
}

// Set stores value under key with the current time, replacing any previous
// entry, then sweeps expired entries if the map is over capacity.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry[V]{value: value, storedAt: now}

	if len(c.entries) > c.capacity {
		c.sweep(now)
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache[V]) sweep(now time.Time) {
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
		}
	}
}

func (c *TTLCache[V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.storedAt) > c.ttl
}
