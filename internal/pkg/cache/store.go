// Package cache provides key/value stores whose entries expire after a fixed
// TTL. Stores are value-type agnostic and safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached entry stays valid.
const DefaultTTL = 5 * time.Minute

// Store is a TTL cache. Get reports ok=false for absent or expired keys.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Invalidate(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
