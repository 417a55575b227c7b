// Package checkout turns a client cart snapshot into a persisted, priced order
// and manages orders afterwards.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/checkoutlog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// DefaultPaymentTimeout bounds a single payment call.
const DefaultPaymentTimeout = 5 * time.Second

type Service struct {
	users          ports.UserRepository
	orders         ports.OrderRepository
	payments       ports.PaymentGateway
	events         ports.OrderEventPublisher
	log            checkoutlog.Repository
	paymentTimeout time.Duration
	now            func() time.Time
}

type Option func(*Service)

func WithPaymentTimeout(d time.Duration) Option {
	return func(s *Service) { s.paymentTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	users ports.UserRepository,
	orders ports.OrderRepository,
	payments ports.PaymentGateway,
	events ports.OrderEventPublisher,
	log checkoutlog.Repository,
	opts ...Option,
) *Service {
	s := &Service{
		users:          users,
		orders:         orders,
		payments:       payments,
		events:         events,
		log:            log,
		paymentTimeout: DefaultPaymentTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout runs the pipeline and returns the persisted order. A declined
// payment is not an error: the order comes back with status "failed".
func (s *Service) Checkout(ctx context.Context, req Request) (*entity.Order, error) {
	r := &run{id: uuid.NewString(), req: req}

	p := &pipeline{
		log: s.log,
		steps: []step{
			validateRequestStep{},
			&resolveUserStep{users: s.users},
			&saveAddressStep{users: s.users},
			&paymentChargeStep{payments: s.payments, timeout: s.paymentTimeout},
			&persistOrderStep{orders: s.orders, now: s.now},
		},
	}
	if err := p.start(ctx, r); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	slog.InfoContext(ctx, "order recorded",
		"order_id", r.order.ID,
		"user_id", r.order.UserID,
		"status", r.order.Status,
		"total", r.order.Total.StringFixed(2),
	)

	if err := s.events.PublishOrderPlaced(ctx, r.order); err != nil {
		slog.WarnContext(ctx, "order event not published", "order_id", r.order.ID, "error", err)
	}
	return r.order, nil
}

// UpdateOrderStatus moves an order to one of the settable statuses. The
// status is checked before the order is looked up.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Settable() {
		return nil, fmt.Errorf("%w: invalid status %q", entity.ErrValidation, status)
	}
	o, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("checkout: update order status: %w", err)
	}
	slog.InfoContext(ctx, "order status updated", "order_id", o.ID, "status", o.Status)
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("checkout: get order: %w", err)
	}
	return o, nil
}

// OrderPage describes one page of a user's order history.
type OrderPage struct {
	CurrentPage   int `json:"currentPage"`
	TotalPages    int `json:"totalPages"`
	TotalOrders   int `json:"totalOrders"`
	OrdersPerPage int `json:"ordersPerPage"`
}

// ListUserOrders returns the user's orders newest first. page and limit
// default to 1 and 10.
func (s *Service) ListUserOrders(ctx context.Context, userID string, page, limit int) ([]entity.Order, OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, OrderPage{}, fmt.Errorf("checkout: list orders: %w", err)
	}

	orders, total, err := s.orders.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, OrderPage{}, fmt.Errorf("checkout: list orders: %w", err)
	}
	return orders, OrderPage{
		CurrentPage:   page,
		TotalPages:    (total + limit - 1) / limit,
		TotalOrders:   total,
		OrdersPerPage: limit,
	}, nil
}
