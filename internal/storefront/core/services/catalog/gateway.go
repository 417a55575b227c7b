// Package catalog fronts the external product catalog with a TTL cache and
// normalizes raw catalog records into products.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

var tracer = otel.Tracer("github.com/jcmexdev/storefront/catalog")

// Caches groups the stores the gateway reads through, one per value shape.
type Caches struct {
	Lists      cache.Store[[]entity.Product]
	Products   cache.Store[entity.Product]
	Categories cache.Store[[]entity.Category]
}

// NewMemoryCaches builds in-process caches sharing one TTL and clock.
func NewMemoryCaches(ttl time.Duration, opts ...cache.Option) Caches {
	return Caches{
		Lists:      cache.NewMemoryStore[[]entity.Product](ttl, opts...),
		Products:   cache.NewMemoryStore[entity.Product](ttl, opts...),
		Categories: cache.NewMemoryStore[[]entity.Category](ttl, opts...),
	}
}

// Gateway serves catalog reads from cache and falls back to the external
// source on a miss. Concurrent misses for the same key share one fetch.
type Gateway struct {
	source     ports.CatalogSource
	caches     Caches
	normalizer *Normalizer
	group      singleflight.Group
}

func NewGateway(source ports.CatalogSource, caches Caches, normalizer *Normalizer) *Gateway {
	return &Gateway{
		source:     source,
		caches:     caches,
		normalizer: normalizer,
	}
}

var _ ports.ProductCatalog = (*Gateway)(nil)

func (g *Gateway) FetchAll(ctx context.Context, limit, skip int) ([]entity.Product, error) {
	key := allProductsKey(limit, skip)
	return readThrough(ctx, g, g.caches.Lists, key, func(ctx context.Context) ([]entity.Product, error) {
		raws, err := g.source.List(ctx, limit, skip)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch products: %w", err)
		}
		return g.normalizer.Products(raws), nil
	})
}

func (g *Gateway) FetchByCategory(ctx context.Context, category string, limit, skip int) ([]entity.Product, error) {
	key := categoryKey(category, limit, skip)
	return readThrough(ctx, g, g.caches.Lists, key, func(ctx context.Context) ([]entity.Product, error) {
		raws, err := g.source.ListByCategory(ctx, category, limit, skip)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch category %q: %w", category, err)
		}
		return g.normalizer.Products(raws), nil
	})
}

func (g *Gateway) FetchByID(ctx context.Context, id string) (*entity.Product, error) {
	key := productKey(id)
	p, err := readThrough(ctx, g, g.caches.Products, key, func(ctx context.Context) (entity.Product, error) {
		raw, err := g.source.Get(ctx, id)
		if err != nil {
			return entity.Product{}, fmt.Errorf("catalog: fetch product %s: %w", id, err)
		}
		p := g.normalizer.Product(*raw)
		p.Images = raw.Images
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *Gateway) Search(ctx context.Context, query string, limit, skip int) ([]entity.Product, error) {
	key := searchKey(query, limit, skip)
	return readThrough(ctx, g, g.caches.Lists, key, func(ctx context.Context) ([]entity.Product, error) {
		raws, err := g.source.Search(ctx, query, limit, skip)
		if err != nil {
			return nil, fmt.Errorf("catalog: search %q: %w", query, err)
		}
		return g.normalizer.Products(raws), nil
	})
}

func (g *Gateway) FetchCategories(ctx context.Context) ([]entity.Category, error) {
	return readThrough(ctx, g, g.caches.Categories, categoriesKey, func(ctx context.Context) ([]entity.Category, error) {
		categories, err := g.source.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch categories: %w", err)
		}
		return categories, nil
	})
}

// ClearCache drops every cached catalog entry.
func (g *Gateway) ClearCache(ctx context.Context) error {
	if err := g.caches.Lists.Clear(ctx); err != nil {
		return err
	}
	if err := g.caches.Products.Clear(ctx); err != nil {
		return err
	}
	return g.caches.Categories.Clear(ctx)
}

// readThrough returns the cached value for key or loads, stores and returns
// it. Cache backend errors are logged and treated as misses. The shared load
// is detached from the cancellation of whichever caller started it; each
// caller stops waiting when its own ctx is done.
func readThrough[V any](
	ctx context.Context,
	g *Gateway,
	store cache.Store[V],
	key string,
	load func(ctx context.Context) (V, error),
) (V, error) {
	var zero V
	if v, ok, err := store.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	} else if ok {
		return v, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := g.group.DoChan(key, func() (any, error) {
		ctx, span := tracer.Start(shared, "catalog.fetch")
		defer span.End()
		span.SetAttributes(attribute.String("cache.key", key))

		v, err := load(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if err := store.Set(ctx, key, v); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("catalog: %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}
