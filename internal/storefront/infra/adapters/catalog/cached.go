package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/salad-storefront/internal/pkg/cache"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

var _ ports.CatalogSource = (*CachedCatalog)(nil)

// CachedCatalog keeps catalog reads in the cache for ttl. Cache failures
// fall through to the wrapped source.
type CachedCatalog struct {
	next  ports.CatalogSource
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedCatalog(next ports.CatalogSource, c cache.Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, ttl: ttl}
}

func (c *CachedCatalog) Salads(ctx context.Context, productType entity.ProductType) ([]entity.Salad, error) {
	all, err := cached(ctx, c, "salads", func() ([]entity.Salad, error) {
		return c.next.Salads(ctx, "")
	})
	if err != nil {
		return nil, err
	}
	if productType == "" {
		return all, nil
	}

	filtered := make([]entity.Salad, 0, len(all))
	for _, s := range all {
		if s.ProductType == productType {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (c *CachedCatalog) Salad(ctx context.Context, id string) (*entity.Salad, error) {
	salads, err := c.Salads(ctx, "")
	if err != nil {
		return nil, err
	}
	return findSalad(salads, id)
}

func (c *CachedCatalog) Ingredients(ctx context.Context) ([]entity.Ingredient, error) {
	return cached(ctx, c, "ingredients", func() ([]entity.Ingredient, error) {
		return c.next.Ingredients(ctx)
	})
}

func cached[T any](ctx context.Context, c *CachedCatalog, name string, load func() ([]T, error)) ([]T, error) {
	key := c.cache.GenerateKey("catalog", name)

	hit, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}
	if hit != "" {
		var out []T
		if err := json.Unmarshal([]byte(hit), &out); err == nil {
			return out, nil
		}
		slog.WarnContext(ctx, "discarding unreadable catalog cache entry", "key", key)
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}
