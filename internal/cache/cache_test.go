package cache

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, size int) *Cache[int, int] {
	t.Helper()
	c, err := New(Config[int, int]{Size: size})
	require.NoError(t, err)
	return c
}

func fill(c *Cache[int, int], entries ...int) {
	for _, e := range entries {
		c.Set(e, e)
	}
}

func TestGetReturnsStoredValue(t *testing.T) {
	c, err := New(Config[string, *struct{ n int }]{Size: 5})
	require.NoError(t, err)

	want := &struct{ n int }{n: 1}
	c.Set("foo", want)

	got, ok := c.Get("foo")
	require.True(t, ok)
	require.Same(t, want, got)
}

func TestFIFOEviction(t *testing.T) {
	c := newCache(t, 5)

	fill(c, 1, 2, 3, 4)
	fill(c, 5, 6, 7)

	for _, k := range []int{1, 2} {
		_, ok := c.Get(k)
		require.False(t, ok, "expected %d to be evicted", k)
	}
	for _, k := range []int{4, 5, 6, 7} {
		v, ok := c.Get(k)
		require.True(t, ok, "expected %d to remain", k)
		require.Equal(t, k, v)
	}
	require.Equal(t, []int{3, 4, 5, 6, 7}, c.Keys())
}

func TestCapacityInvariant(t *testing.T) {
	c := newCache(t, 3)
	for i := 0; i < 50; i++ {
		c.Set(i, i)
		require.LessOrEqual(t, c.Len(), c.Cap())
		require.Len(t, c.Keys(), c.Len())
	}
	require.Equal(t, int64(47), c.Stats().Evictions)
}

func TestGetDoesNotRenewEntry(t *testing.T) {
	c := newCache(t, 2)
	fill(c, 1, 2)

	// An LRU would keep 1 here.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Set(3, 3)

	_, ok = c.Get(1)
	require.False(t, ok)
	require.Equal(t, []int{2, 3}, c.Keys())
}

func TestRemove(t *testing.T) {
	c := newCache(t, 5)
	fill(c, 1, 2, 3, 4, 5)

	c.Remove(3)

	_, ok := c.Get(3)
	require.False(t, ok)
	for _, k := range []int{1, 2, 4, 5} {
		v, ok := c.Get(k)
		require.True(t, ok)
		require.Equal(t, k, v)
	}
	require.Equal(t, 4, c.Len())
}

func TestRemoveAbsentKeyKeepsOrder(t *testing.T) {
	c := newCache(t, 5)
	fill(c, 1, 2, 3, 4, 5)

	c.Remove(7)
	c.Remove(3)
	c.Set(6, 6)
	c.Set(7, 7)

	for _, k := range []int{1, 3} {
		_, ok := c.Get(k)
		require.False(t, ok, "expected %d to be absent", k)
	}
	for _, k := range []int{2, 4, 5, 6, 7} {
		v, ok := c.Get(k)
		require.True(t, ok, "expected %d to be present", k)
		require.Equal(t, k, v)
	}
	require.Equal(t, []int{2, 4, 5, 6, 7}, c.Keys())
}

func TestClear(t *testing.T) {
	c := newCache(t, 5)
	fill(c, 1, 2, 3, 4, 5)

	c.Clear()

	for _, k := range []int{1, 2, 3, 4, 5} {
		_, ok := c.Get(k)
		require.False(t, ok)
	}
	require.Zero(t, c.Len())
	require.Empty(t, c.Keys())
	require.Equal(t, 5, c.Cap())

	fill(c, 6, 7, 8, 9, 10, 11)
	require.Equal(t, []int{7, 8, 9, 10, 11}, c.Keys())
}

func TestUpdateKeepsPositionAndOccupancy(t *testing.T) {
	c := newCache(t, 3)
	fill(c, 1, 2, 3)

	c.Set(1, 100)

	require.Equal(t, 3, c.Len())
	require.Zero(t, c.Stats().Evictions)
	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, 100, v)
	require.Equal(t, []int{1, 2, 3}, c.Keys())

	// 1 was inserted first; overwriting it did not move it back.
	c.Set(4, 4)
	_, ok = c.Get(1)
	require.False(t, ok)
	require.Equal(t, []int{2, 3, 4}, c.Keys())
}

func TestPeek(t *testing.T) {
	c := newCache(t, 2)

	_, _, ok := c.Peek()
	require.False(t, ok)

	fill(c, 1, 2)
	k, v, ok := c.Peek()
	require.True(t, ok)
	require.Equal(t, 1, k)
	require.Equal(t, 1, v)

	c.Set(3, 3)
	k, _, ok = c.Peek()
	require.True(t, ok)
	require.Equal(t, 2, k)
}

func TestOnEvict(t *testing.T) {
	type pair struct{ k, v int }
	var evicted []pair

	c, err := New(Config[int, int]{
		Size: 2,
		OnEvict: func(k, v int) {
			evicted = append(evicted, pair{k, v})
		},
	})
	require.NoError(t, err)

	c.Set(1, 10)
	c.Set(2, 20)
	c.Remove(2)
	c.Set(3, 30)
	c.Set(4, 40)
	c.Set(5, 50)
	c.Clear()

	require.Equal(t, []pair{{1, 10}, {3, 30}}, evicted)
}

func TestStats(t *testing.T) {
	c := newCache(t, 2)
	fill(c, 1, 2, 3)

	c.Get(1)
	c.Get(2)
	c.Get(3)
	c.Get(3)
	require.True(t, c.Contains(2))

	s := c.Stats()
	require.Equal(t, 2, s.Capacity)
	require.Equal(t, 2, s.Len)
	require.Equal(t, int64(3), s.Hits)
	require.Equal(t, int64(1), s.Misses)
	require.Equal(t, int64(1), s.Evictions)
	require.InDelta(t, 0.75, s.HitRate, 1e-9)
}

func TestNew_ValidatesSize(t *testing.T) {
	var calls []int
	validator := func(size int) error {
		calls = append(calls, size)
		return nil
	}

	_, err := New(Config[int, int]{Size: 5, Validator: validator})
	require.NoError(t, err)
	require.Equal(t, []int{5}, calls)
}

func TestNew_RejectedSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{name: "zero", size: 0},
		{name: "negative", size: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(Config[int, int]{Size: tt.size})
			require.Nil(t, c)
			require.ErrorIs(t, err, ErrInvalidSize)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.size, cfgErr.Size)
		})
	}
}

func TestNew_ValidatorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(Config[int, int]{
		Size:      10,
		Validator: func(int) error { return boom },
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "size=10")
}

type label string

func TestIsValidKey(t *testing.T) {
	c := newCache(t, 5)

	valid := []any{1, 1.2, -5, "foo", "12", int64(7), uint8(3), float32(0.5), label("x")}
	for _, v := range valid {
		require.True(t, c.IsValidKey(v), "%#v should be valid", v)
	}

	var nilPtr *int
	invalid := []any{
		struct{}{},
		[]int{},
		[0]int{},
		nil,
		nilPtr,
		map[string]int{},
		true,
		math.NaN(),
		math.Inf(1),
		complex(1, 2),
	}
	for _, v := range invalid {
		require.False(t, c.IsValidKey(v), "%#v should be invalid", v)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := newCache(t, 16)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := w*1000 + i
				c.Set(k, i)
				c.Get(k)
				if i%7 == 0 {
					c.Remove(k)
				}
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), 16)
	require.Len(t, c.Keys(), c.Len())
}
