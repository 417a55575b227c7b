package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func newTestStore(t *testing.T) (*MemoryStore[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewMemoryStore[string](DefaultTTL, WithClock(clock.Now)), clock
}

func TestMemoryStore_HitWithinTTL(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)

	require.NoError(t, store.Set(ctx, "k", "v"))
	clock.Advance(DefaultTTL - time.Nanosecond)

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemoryStore_ExpiresAtTTLAndEvicts(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t)

	require.NoError(t, store.Set(ctx, "k", "v"))
	clock.Advance(DefaultTTL)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "expired entry should be evicted on lookup")

	require.NoError(t, store.Set(ctx, "k", "v2"))
	got, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestMemoryStore_InvalidateAndClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))

	require.NoError(t, store.Invalidate(ctx, "a"))
	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, store.Clear(ctx))
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(ctx, "k", "first"))
	require.NoError(t, store.Set(ctx, "k", "second"))

	got, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "second", got)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = store.Set(ctx, key, i)
			_, _, _ = store.Get(ctx, key)
			if i%10 == 0 {
				_ = store.Invalidate(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), 5)
}
