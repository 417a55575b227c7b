package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// PaymentGateway charges an amount. A declined payment is a successful call
// with Success=false; err is reserved for transport failures.
type PaymentGateway interface {
	Charge(ctx context.Context, amount decimal.Decimal, paymentMethod string) (entity.PaymentResult, error)
}
