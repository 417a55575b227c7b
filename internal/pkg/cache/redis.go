package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps JSON-encoded values in Redis under "<namespace>:<key>" and
// lets Redis expire them.
type RedisStore[V any] struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewRedisStore[V any](client redis.UniversalClient, namespace string, ttl time.Duration) *RedisStore[V] {
	return &RedisStore[V]{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

var _ Store[int] = (*RedisStore[int])(nil)

func (r *RedisStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var value V

	raw, err := r.client.Get(ctx, r.GenerateKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("cache: redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisStore[V]) Set(ctx context.Context, key string, value V) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	if err := r.client.Set(ctx, r.GenerateKey(key), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %q: %w", key, err)
	}
	return nil
}

func (r *RedisStore[V]) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.GenerateKey(key)).Err(); err != nil {
		return fmt.Errorf("cache: redis del %q: %w", key, err)
	}
	return nil
}

// Clear removes every key in the store's namespace.
func (r *RedisStore[V]) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.namespace+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("cache: redis scan %q: %w", r.namespace, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: redis del %q: %w", r.namespace, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisStore[V]) GenerateKey(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}
