package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jcmexdev/salad-storefront/internal/pkg/cache"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

var _ ports.CartStorage = (*RedisStorage)(nil)

// RedisStorage stores each cart record as a single string value. A ttl of
// zero keeps carts forever.
type RedisStorage struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRedisStorage(c cache.Cache, ttl time.Duration) *RedisStorage {
	return &RedisStorage{cache: c, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := r.cache.Get(ctx, r.cache.GenerateKey("cart", key))
	if err != nil {
		return nil, fmt.Errorf("redis load cart: %w", err)
	}
	if val == "" {
		return nil, nil
	}
	return []byte(val), nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := r.cache.Set(ctx, r.cache.GenerateKey("cart", key), data, r.ttl); err != nil {
		return fmt.Errorf("redis save cart: %w", err)
	}
	return nil
}
