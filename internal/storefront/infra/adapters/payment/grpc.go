// Package payment adapts the payment service's gRPC contract to
// ports.PaymentGateway.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/storefront/internal/pkg/paymentrpc"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Dial opens a lazily connecting, traced client connection to addr.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("payment: dial %s: %w", addr, err)
	}
	return conn, nil
}

type GRPCGateway struct {
	client *paymentrpc.Client
}

func NewGRPCGateway(conn grpc.ClientConnInterface) *GRPCGateway {
	return &GRPCGateway{client: paymentrpc.NewPaymentClient(conn)}
}

var _ ports.PaymentGateway = (*GRPCGateway)(nil)

// Charge forwards the request id and idempotency key already present in the
// outgoing metadata of ctx.
func (g *GRPCGateway) Charge(ctx context.Context, amount decimal.Decimal, paymentMethod string) (entity.PaymentResult, error) {
	res, err := g.client.Charge(ctx, &paymentrpc.ChargeRequest{
		Amount:        amount,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return entity.PaymentResult{}, fmt.Errorf("%w: payment service: %v", entity.ErrUpstreamUnavailable, err)
	}
	return entity.PaymentResult{
		Success:   res.Success,
		PaymentID: res.PaymentID,
		Message:   res.Message,
	}, nil
}
