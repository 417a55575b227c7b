package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// CatalogSource is the raw external catalog API. Implementations return
// entity.ErrNotFound for unknown records and entity.ErrUpstreamUnavailable for
// transport failures or malformed responses.
type CatalogSource interface {
	List(ctx context.Context, limit, skip int) ([]entity.RawProduct, error)
	ListByCategory(ctx context.Context, category string, limit, skip int) ([]entity.RawProduct, error)
	Get(ctx context.Context, id string) (*entity.RawProduct, error)
	Search(ctx context.Context, query string, limit, skip int) ([]entity.RawProduct, error)
	Categories(ctx context.Context) ([]entity.Category, error)
}

// ProductCatalog is the cached, normalized view of the catalog.
type ProductCatalog interface {
	FetchAll(ctx context.Context, limit, skip int) ([]entity.Product, error)
	FetchByCategory(ctx context.Context, category string, limit, skip int) ([]entity.Product, error)
	FetchByID(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, query string, limit, skip int) ([]entity.Product, error)
	FetchCategories(ctx context.Context) ([]entity.Category, error)
}
