package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subhub/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLRUCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)

		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get non-existent", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("update existing keeps one entry", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)

		c.Put("a", 1)
		c.Put("a", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		assert.True(t, c.Remove("a"))
		assert.False(t, c.Remove("a"))

		c.Clear()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("panics on non-positive capacity", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	// touch "a" so "b" becomes least recently used
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewLRUCache[string, string](10)
	c.SetClock(clock.Now)

	c.PutWithTTL("short", "x", time.Second)
	c.Put("forever", "y")

	clock.Advance(999 * time.Millisecond)
	_, ok := c.Get("short")
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok, "entry must expire exactly at its deadline")
	assert.Equal(t, 1, c.Len(), "expired entry is dropped on read")

	clock.Advance(24 * time.Hour)
	val, ok := c.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, "y", val)
}

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := cache.NewStore(8)
	s.SetClock(clock.Now)

	t.Run("miss returns nil without error", func(t *testing.T) {
		val, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("set copies the value", func(t *testing.T) {
		buf := []byte("hello")
		require.NoError(t, s.Set(ctx, "k", buf, 0))
		buf[0] = 'j'

		val, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), val)
	})

	t.Run("ttl and delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "ttl", []byte("1"), time.Minute))
		require.NoError(t, s.Set(ctx, "del", []byte("2"), 0))

		require.NoError(t, s.Delete(ctx, "del", "unknown"))
		val, err := s.Get(ctx, "del")
		require.NoError(t, err)
		assert.Nil(t, val)

		clock.Advance(time.Minute)
		val, err = s.Get(ctx, "ttl")
		require.NoError(t, err)
		assert.Nil(t, val)
	})
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[int, int](16)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(i, i)
			_, _ = c.Get(i)
			c.Remove(i - 1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
