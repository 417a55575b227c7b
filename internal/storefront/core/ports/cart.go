package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type CartRepository interface {
	// GetOrCreateCart returns the user's cart, creating an empty one if needed.
	GetOrCreateCart(ctx context.Context, userID string) (*entity.Cart, error)
	FindCartByUser(ctx context.Context, userID string) (*entity.Cart, error)
	// AddItem atomically inserts the item or increments its quantity.
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*entity.CartItem, error)
	GetItem(ctx context.Context, itemID string) (*entity.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	ListItems(ctx context.Context, cartID string) ([]entity.CartItem, error)
	ClearItems(ctx context.Context, cartID string) error
}
