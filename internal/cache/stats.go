package cache

// Stats holds cache counters and occupancy.
type Stats struct {
	Capacity int
	Len      int

	Hits      int64
	Misses    int64
	Evictions int64   // capacity evictions only
	HitRate   float64 // hits / (hits + misses)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	s := Stats{
		Capacity:  c.size,
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
