package main

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"

	"gofifo/internal/cache"
)

// demo exercises the cache the way the FIFO policy is meant to be observed:
// oldest insertions go first, reads and overwrites never renew an entry.
func demo(ctx context.Context, c *cache.Cache[string, string], logger *log.Logger) error {
	steps := []func(){
		// 1) Overflow by two: the first two insertions are evicted.
		func() {
			for i := 1; i <= c.Cap()+2; i++ {
				k := strconv.Itoa(i)
				c.Set(k, "v"+k)
			}
			logger.Info("after overflow (oldest->newest)", "keys", c.Keys())
		},
		// 2) Reading the oldest key does not protect it.
		func() {
			oldest, _, _ := c.Peek()
			if v, ok := c.Get(oldest); ok {
				logger.Info("get", "key", oldest, "value", v)
			}
			c.Set("fresh", "new")
			if _, ok := c.Get(oldest); !ok {
				logger.Info("get: missing (evicted despite the read)", "key", oldest)
			}
		},
		// 3) Overwriting keeps the position.
		func() {
			oldest, _, _ := c.Peek()
			c.Set(oldest, "updated")
			next, v, _ := c.Peek()
			logger.Info("overwrite keeps position", "key", next, "value", v, "len", c.Len())
		},
		// 4) Removing an absent key is a no-op; removing a present one frees a slot.
		func() {
			c.Remove("never-set")
			keys := c.Keys()
			mid := keys[len(keys)/2]
			c.Remove(mid)
			logger.Info("after remove", "removed", mid, "keys", c.Keys())
		},
		// 5) Clear drops everything but keeps the capacity.
		func() {
			c.Clear()
			logger.Info("after clear", "len", c.Len(), "cap", c.Cap())
		},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			logger.Warn("received shutdown signal")
			return ctx.Err()
		default:
		}
		step()
	}
	return nil
}
