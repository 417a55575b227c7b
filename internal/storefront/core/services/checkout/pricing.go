package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

var (
	// ShippingFlat is charged on every order.
	ShippingFlat = decimal.NewFromInt(10)
	// TaxRate applies to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// ShippingPerExtraItem is added to a quote for each line after the first.
	ShippingPerExtraItem = decimal.NewFromInt(2)
)

// Totals is the money breakdown of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives shipping, tax and the grand total from the subtotal.
// Tax is rounded to cents so Total == Subtotal + Shipping + Tax holds exactly.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingFlat,
		Tax:      tax,
		Total:    subtotal.Add(ShippingFlat).Add(tax),
	}
}

// Quote is a shipping estimate.
type Quote struct {
	Base       decimal.Decimal
	Additional decimal.Decimal
	Total      decimal.Decimal
}

// ShippingQuote estimates shipping for a cart with itemCount lines.
func ShippingQuote(itemCount int) Quote {
	additional := decimal.Zero
	if itemCount > 1 {
		additional = ShippingPerExtraItem.Mul(decimal.NewFromInt(int64(itemCount - 1)))
	}
	return Quote{
		Base:       ShippingFlat,
		Additional: additional,
		Total:      ShippingFlat.Add(additional),
	}
}

// ValidateAddress reports every missing required field at once.
func ValidateAddress(a *entity.Address) error {
	if a == nil {
		return fmt.Errorf("%w: address is required", entity.ErrValidation)
	}
	if missing := a.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", entity.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
