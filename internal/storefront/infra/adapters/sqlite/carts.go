package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type CartRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{db: db.db, now: time.Now}
}

var _ ports.CartRepository = (*CartRepository)(nil)

const cartItemColumns = `id, cart_id, product_id, quantity, created_at, updated_at`

func (r *CartRepository) GetOrCreateCart(ctx context.Context, userID string) (*entity.Cart, error) {
	const q = `INSERT INTO carts (id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), userID, formatTime(r.now())); err != nil {
		return nil, fmt.Errorf("sqlite: create cart for user %q: %w", userID, err)
	}
	return r.FindCartByUser(ctx, userID)
}

func (r *CartRepository) FindCartByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	const q = `SELECT id, user_id, created_at FROM carts WHERE user_id = ?`

	var (
		c         entity.Cart
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&c.ID, &c.UserID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cart for user %s", entity.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find cart for user %q: %w", userID, err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddItem inserts the item or adds quantity to the existing row in a single
// statement, so concurrent adds of the same product never lose an increment.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) (*entity.CartItem, error) {
	const q = `
		INSERT INTO cart_items (` + cartItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET
			quantity   = cart_items.quantity + excluded.quantity,
			updated_at = excluded.updated_at
		RETURNING ` + cartItemColumns

	now := formatTime(r.now())
	row := r.db.QueryRowContext(ctx, q, uuid.NewString(), cartID, productID, quantity, now, now)
	item, err := scanCartItem(row)
	if err != nil {
		return nil, fmt.Errorf("sqlite: add product %q to cart %q: %w", productID, cartID, err)
	}
	return item, nil
}

func (r *CartRepository) GetItem(ctx context.Context, itemID string) (*entity.CartItem, error) {
	const q = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = ?`

	item, err := scanCartItem(r.db.QueryRowContext(ctx, q, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cart item %s", entity.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get cart item %q: %w", itemID, err)
	}
	return item, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*entity.CartItem, error) {
	const q = `UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ? RETURNING ` + cartItemColumns

	item, err := scanCartItem(r.db.QueryRowContext(ctx, q, quantity, formatTime(r.now()), itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cart item %s", entity.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: update cart item %q: %w", itemID, err)
	}
	return item, nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("sqlite: remove cart item %q: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: remove cart item %q: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: cart item %s", entity.ErrNotFound, itemID)
	}
	return nil
}

func (r *CartRepository) ListItems(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	const q = `SELECT ` + cartItemColumns + ` FROM cart_items WHERE cart_id = ? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, cartID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list items of cart %q: %w", cartID, err)
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list items of cart %q: %w", cartID, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list items of cart %q: %w", cartID, err)
	}
	return items, nil
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return fmt.Errorf("sqlite: clear cart %q: %w", cartID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCartItem(s scanner) (*entity.CartItem, error) {
	var (
		item                 entity.CartItem
		createdAt, updatedAt string
	)
	if err := s.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
