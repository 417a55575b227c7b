package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/checkout"
)

// Envelope wraps every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FlexibleID accepts a JSON string or number; clients send product IDs both ways.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number")
	}
	*id = FlexibleID(n.String())
	return nil
}

// --- users ---

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Address   *entity.Address `json:"address"`
	CreatedAt time.Time       `json:"createdAt"`
}

func mapUserToResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
}

// --- cart ---

type AddCartItemRequest struct {
	ProductID FlexibleID `json:"productId"`
	Quantity  *int       `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cartId"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Product   *entity.Product `json:"product"`
}

type CartResponse struct {
	ID     string             `json:"id,omitempty"`
	UserID string             `json:"userId,omitempty"`
	Items  []CartItemResponse `json:"items"`
}

func mapCartToResponse(v *entity.CartView) CartResponse {
	items := make([]CartItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = CartItemResponse{
			ID:        it.ID,
			CartID:    it.CartID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
			Product:   it.Product,
		}
	}
	return CartResponse{ID: v.ID, UserID: v.UserID, Items: items}
}

// --- checkout ---

type CheckoutItemDTO struct {
	ProductID FlexibleID      `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CheckoutRequest struct {
	CartItems       []CheckoutItemDTO `json:"cartItems"`
	Total           decimal.Decimal   `json:"total"`
	ShippingAddress *entity.Address   `json:"shippingAddress"`
	BillingAddress  *entity.Address   `json:"billingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
	UserID          string            `json:"userId"`
}

func mapCheckoutRequest(req CheckoutRequest) checkout.Request {
	items := make([]checkout.LineItem, len(req.CartItems))
	for i, it := range req.CartItems {
		items[i] = checkout.LineItem{
			ProductID: string(it.ProductID),
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return checkout.Request{
		UserID:          req.UserID,
		Items:           items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
}

type OrderSummaryResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	Total         float64 `json:"total"`
	Items         int     `json:"items"`
}

type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        float64             `json:"subtotal"`
	Shipping        float64             `json:"shipping"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
	ShippingAddress entity.Address      `json:"shippingAddress"`
	BillingAddress  entity.Address      `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	PaymentID       *string             `json:"paymentId"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ShippingCostRequest struct {
	Address *entity.Address   `json:"address"`
	Items   []json.RawMessage `json:"items"`
}

type ShippingBreakdown struct {
	BaseCost       float64 `json:"baseCost"`
	AdditionalCost float64 `json:"additionalCost"`
	Total          float64 `json:"total"`
}

type ValidateAddressRequest struct {
	Address *entity.Address `json:"address"`
}

func mapOrderToSummary(o *entity.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:            o.ID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total.InexactFloat64(),
		Items:         len(o.Items),
	}
}

func mapOrderToResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		Subtotal:        o.Subtotal.InexactFloat64(),
		Shipping:        o.Shipping.InexactFloat64(),
		Tax:             o.Tax.InexactFloat64(),
		Total:           o.Total.InexactFloat64(),
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentID:       o.PaymentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func mapOrdersToResponse(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = mapOrderToResponse(&orders[i])
	}
	return out
}
