package entity

import "time"

// Cart belongs to exactly one user and is created lazily on first access.
type Cart struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// CartItem is unique per (CartID, ProductID); Quantity is always positive.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrichedItem joins a stored cart item with live catalog data. Product is nil
// when the catalog lookup for this item failed.
type EnrichedItem struct {
	CartItem
	Product *Product
}

// Degraded reports whether the catalog data for the item is missing.
func (i EnrichedItem) Degraded() bool { return i.Product == nil }

// CartView is the user-facing cart.
type CartView struct {
	ID     string
	UserID string
	Items  []EnrichedItem
}
