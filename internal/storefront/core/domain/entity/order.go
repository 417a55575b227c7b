package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

// Settable reports whether s is an allowed target of a status update.
// "failed" is only ever assigned by checkout.
func (s OrderStatus) Settable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

// Order is immutable after checkout except for Status and PaymentStatus.
// Items are price snapshots and never re-derived from the catalog.
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress Address
	BillingAddress  Address
	PaymentMethod   string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentID       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// PaymentResult is the outcome of the payment step. It is folded into the
// order and never stored on its own.
type PaymentResult struct {
	Success   bool
	PaymentID string
	Message   string
}
