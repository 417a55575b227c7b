package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// LineItem is a priced cart line as the client saw it at checkout.
type LineItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Request is the client-supplied cart snapshot. Prices and Total are trusted
// as given; only tax and shipping are computed here.
type Request struct {
	UserID          string
	Items           []LineItem
	Total           decimal.Decimal
	ShippingAddress *entity.Address
	BillingAddress  *entity.Address
	PaymentMethod   string
}

// Validate checks the request in the order the pipeline reports problems:
// items and total first, then addresses and payment method, then the user.
func (r Request) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: cart items are required", entity.ErrValidation)
	}
	if !r.Total.IsPositive() {
		return fmt.Errorf("%w: valid total amount is required", entity.ErrValidation)
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity <= 0 {
			return fmt.Errorf("%w: cart item %d needs a product ID and a positive quantity", entity.ErrValidation, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: cart item %d has a negative price", entity.ErrValidation, i)
		}
	}
	if r.ShippingAddress == nil || r.BillingAddress == nil || strings.TrimSpace(r.PaymentMethod) == "" {
		return fmt.Errorf("%w: shipping address, billing address, and payment method are required", entity.ErrValidation)
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: user ID is required", entity.ErrValidation)
	}
	return nil
}
