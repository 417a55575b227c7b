package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// MemoryStore keeps entries in a map and expires them lazily on lookup.
// There is no size bound and no background sweep.
type MemoryStore[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used to stamp and expire entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewMemoryStore[V any](ttl time.Duration, opts ...Option) *MemoryStore[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore[V]{
		items: make(map[string]entry[V]),
		ttl:   ttl,
		now:   o.now,
	}
}

var _ Store[int] = (*MemoryStore[int])(nil)

func (c *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	var zero V

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false, nil
	}
	if c.now().Sub(e.createdAt) < c.ttl {
		return e.value, true, nil
	}

	c.mu.Lock()
	// A concurrent Set may have refreshed the entry since the read lock.
	if cur, ok := c.items[key]; ok && cur.createdAt.Equal(e.createdAt) {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return zero, false, nil
}

func (c *MemoryStore[V]) Set(_ context.Context, key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, createdAt: c.now()}
	return nil
}

func (c *MemoryStore[V]) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *MemoryStore[V]) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryStore[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
