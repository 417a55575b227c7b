// Package cart owns per-user carts and joins their items with live catalog data.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// DefaultEnrichConcurrency bounds the catalog lookups issued for one cart view.
const DefaultEnrichConcurrency = 8

type Service struct {
	carts       ports.CartRepository
	catalog     ports.ProductCatalog
	concurrency int
}

func NewService(carts ports.CartRepository, catalog ports.ProductCatalog, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &Service{carts: carts, catalog: catalog, concurrency: concurrency}
}

// GetCart returns the user's enriched cart, creating an empty one on first access.
func (s *Service) GetCart(ctx context.Context, userID string) (*entity.CartView, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: get cart: %w", err)
	}
	return s.view(ctx, cart)
}

// AddItem merges quantity into the user's line for productID.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*entity.CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product ID is required", entity.ErrValidation)
	}
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart: add item: %w", err)
	}
	item, err := s.carts.AddItem(ctx, cart.ID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("cart: add item: %w", err)
	}

	slog.InfoContext(ctx, "cart item added",
		"cart_id", cart.ID,
		"product_id", productID,
		"quantity", item.Quantity,
	)
	return s.view(ctx, cart)
}

// UpdateItem sets the quantity of an item in the user's cart.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*entity.CartView, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	cart, err := s.ownedItemCart(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.carts.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, fmt.Errorf("cart: update item: %w", err)
	}
	return s.view(ctx, cart)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*entity.CartView, error) {
	cart, err := s.ownedItemCart(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("cart: remove item: %w", err)
	}
	return s.view(ctx, cart)
}

// Clear empties the user's cart. A user without a cart gets an empty view
// and no cart is created.
func (s *Service) Clear(ctx context.Context, userID string) (*entity.CartView, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return &entity.CartView{UserID: userID, Items: []entity.EnrichedItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: clear: %w", err)
	}
	if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("cart: clear: %w", err)
	}
	return &entity.CartView{ID: cart.ID, UserID: cart.UserID, Items: []entity.EnrichedItem{}}, nil
}

// ownedItemCart resolves the cart an item belongs to and checks it is the
// caller's. Items of other users are reported as not found.
func (s *Service) ownedItemCart(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) || (err == nil && cart.ID != item.CartID) {
		return nil, fmt.Errorf("%w: item %s is not in the cart", entity.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	return cart, nil
}

func (s *Service) view(ctx context.Context, cart *entity.Cart) (*entity.CartView, error) {
	items, err := s.carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("cart: list items: %w", err)
	}
	return &entity.CartView{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  s.Enrich(ctx, items),
	}, nil
}

func validQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", entity.ErrValidation)
	}
	return nil
}
