package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Config controls cache capacity and construction-time hooks.
//
// Size is required and is checked by Validator (ValidateSize when nil).
// OnEvict runs for capacity evictions only, never for Remove or Clear.
// It is called with the cache lock held and must not call back into the cache.
type Config[K comparable, V any] struct {
	Size      int
	Validator SizeValidator
	OnEvict   func(key K, value V)
	Logger    *log.Logger
}

// Cache is a concurrency-safe in-memory key–value cache with FIFO eviction.
//
// A map gives O(1) key lookup and a doubly-linked list records insertion
// order. The map stores the list element for each key, so removing an
// arbitrary key never scans the list.
//
// Invariant: every key in items has exactly one element in order and vice
// versa, and len(items) <= size once a public method returns.
type Cache[K comparable, V any] struct {
	mu sync.RWMutex

	size  int
	items map[K]*list.Element
	order *list.List // Front = oldest insertion (next to evict), Back = newest

	onEvict func(key K, value V)
	logger  *log.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// entry is the value stored in the order list elements.
// The key is kept here because eviction starts from list nodes.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// New validates cfg.Size and constructs an empty cache.
//
// The validator is invoked exactly once. A rejected size is returned as a
// *ConfigError wrapping the validator's error.
func New[K comparable, V any](cfg Config[K, V]) (*Cache[K, V], error) {
	validate := cfg.Validator
	if validate == nil {
		validate = ValidateSize
	}
	if err := validate(cfg.Size); err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Debug("cache size rejected", "size", cfg.Size, "err", err)
		}
		return nil, &ConfigError{Size: cfg.Size, Err: err}
	}

	return &Cache[K, V]{
		size:    cfg.Size,
		items:   make(map[K]*list.Element, cfg.Size),
		order:   list.New(),
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
	}, nil
}

// IsValidKey reports whether key is acceptable as a cache key.
// See the package-level IsValidKey.
func (c *Cache[K, V]) IsValidKey(key any) bool {
	return IsValidKey(key)
}

// Set writes a key.
//
// Overwriting an existing key replaces its value in place: its position in
// the eviction order and the occupancy are unchanged. A new key is appended
// to the back of the order and, if that pushes the cache over capacity, the
// oldest entry is evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		return
	}

	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
	c.evictIfNeededLocked()
}

// Get reads a key.
//
// Reads never change eviction order, so only the read lock is taken.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	var value V
	if ok {
		value = el.Value.(*entry[K, V]).value
	}
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return value, false
	}
	c.hits.Add(1)
	return value, true
}

// Contains reports whether key is present without touching stats.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

// Remove deletes a key if present. Removing an absent key is a no-op.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleteLocked(key)
}

// Clear drops every entry. Capacity and stats are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[K]*list.Element, c.size)
	c.order.Init()

	if c.logger != nil {
		c.logger.Debug("cache cleared", "dropped", n)
	}
}

// Len returns the number of stored entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cap returns the capacity fixed at construction.
func (c *Cache[K, V]) Cap() int {
	return c.size
}

// Keys returns keys in eviction order, oldest first.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry[K, V]).key)
	}
	return out
}

// Peek returns the entry that would be evicted next.
func (c *Cache[K, V]) Peek() (K, V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el := c.order.Front()
	if el == nil {
		var (
			key   K
			value V
		)
		return key, value, false
	}
	e := el.Value.(*entry[K, V])
	return e.key, e.value, true
}

func (c *Cache[K, V]) evictIfNeededLocked() {
	for len(c.items) > c.size {
		el := c.order.Front()
		if el == nil {
			return
		}
		e := el.Value.(*entry[K, V])
		c.deleteLocked(e.key)
		c.evictions.Add(1)

		if c.logger != nil {
			c.logger.Debug("evicted oldest entry", "key", e.key, "len", len(c.items))
		}
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
	}
}

func (c *Cache[K, V]) deleteLocked(key K) {
	el, ok := c.items[key]
	if !ok {
		return
	}
	delete(c.items, key)
	c.order.Remove(el)
}
