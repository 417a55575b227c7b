package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type OrderRepository interface {
	// Create persists the order and its items atomically.
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Order, int, error)
}

// OrderEventPublisher announces persisted orders. Publishing is best-effort.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *entity.Order) error
}
