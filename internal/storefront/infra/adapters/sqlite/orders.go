package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

type OrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db.db, now: time.Now}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

const orderColumns = `id, user_id, subtotal, shipping, tax, total, shipping_address, billing_address,
	payment_method, status, payment_status, payment_id, created_at, updated_at`

// Create writes the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	shipping, err := encodeAddress(o.ShippingAddress)
	if err != nil {
		return err
	}
	billing, err := encodeAddress(o.BillingAddress)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin order %q: %w", o.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertOrder = `INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var paymentID any
	if o.PaymentID != nil {
		paymentID = *o.PaymentID
	}
	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID, o.UserID,
		o.Subtotal, o.Shipping, o.Tax, o.Total,
		shipping, billing,
		o.PaymentMethod, string(o.Status), string(o.PaymentStatus), paymentID,
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
	}

	const insertItem = `INSERT INTO order_items (id, order_id, position, product_id, quantity, price) VALUES (?, ?, ?, ?, ?, ?)`
	for i, item := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem, item.ID, o.ID, i, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("sqlite: insert item %d of order %q: %w", i, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", entity.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, string(status), formatTime(r.now()), id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update status of order %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: update status of order %q: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: order %s", entity.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

// ListByUser returns one page of the user's orders, newest first, and the
// total number of orders the user has.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count orders of user %q: %w", userID, err)
	}

	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list orders of user %q: %w", userID, err)
	}

	orders := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			_ = rows.Close()
			return nil, 0, fmt.Errorf("sqlite: list orders of user %q: %w", userID, err)
		}
		orders = append(orders, *o)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list orders of user %q: %w", userID, err)
	}

	// Items are loaded after the cursor is closed: the pool holds one connection.
	for i := range orders {
		if orders[i].Items, err = r.items(ctx, orders[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	const q = `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = ? ORDER BY position`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: items of order %q: %w", orderID, err)
	}
	defer rows.Close()

	items := []entity.OrderItem{}
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("sqlite: items of order %q: %w", orderID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: items of order %q: %w", orderID, err)
	}
	return items, nil
}

func scanOrder(s scanner) (*entity.Order, error) {
	var (
		o                    entity.Order
		shipping, billing    string
		status, payStatus    string
		paymentID            sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(
		&o.ID, &o.UserID,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Total,
		&shipping, &billing,
		&o.PaymentMethod, &status, &payStatus, &paymentID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = entity.OrderStatus(status)
	o.PaymentStatus = entity.PaymentStatus(payStatus)
	if paymentID.Valid {
		id := paymentID.String
		o.PaymentID = &id
	}
	if o.ShippingAddress, err = decodeAddress(shipping); err != nil {
		return nil, err
	}
	if o.BillingAddress, err = decodeAddress(billing); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
