// Package paymentservice is the simulated payment processor and its gRPC server.
package paymentservice

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/pkg/paymentrpc"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// ChargeRecord is a remembered charge. A replay must repeat the amount and
// payment method of the first request.
type ChargeRecord struct {
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod string               `json:"paymentMethod"`
	Result        entity.PaymentResult `json:"result"`
}

func (r ChargeRecord) matches(req *paymentrpc.ChargeRequest) bool {
	return r.Amount.Equal(req.Amount) && r.PaymentMethod == req.PaymentMethod
}

// Server exposes a PaymentGateway over gRPC. Charges that carry an idempotency
// key are remembered, and a repeated key gets the first result back.
type Server struct {
	gateway ports.PaymentGateway
	charges cache.Store[ChargeRecord]
}

func NewServer(gateway ports.PaymentGateway, charges cache.Store[ChargeRecord]) *Server {
	return &Server{gateway: gateway, charges: charges}
}

var _ paymentrpc.PaymentServer = (*Server)(nil)

func (s *Server) Charge(ctx context.Context, req *paymentrpc.ChargeRequest) (*paymentrpc.ChargeResponse, error) {
	requestID := interceptors.RequestID(ctx)
	key := interceptors.IdempotencyKey(ctx)

	if !req.Amount.IsPositive() {
		return nil, status.Error(codes.InvalidArgument, "amount must be positive")
	}

	if key != "" {
		prev, ok, err := s.charges.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", "request_id", requestID, "error", err)
		}
		if ok {
			if !prev.matches(req) {
				slog.WarnContext(ctx, "idempotency key reused for a different charge",
					"request_id", requestID,
					"idempotency_key", key,
					"amount", req.Amount.StringFixed(2),
					"first_amount", prev.Amount.StringFixed(2),
				)
				return nil, status.Error(codes.FailedPrecondition, "idempotency key was used for a different charge")
			}
			slog.InfoContext(ctx, "replaying charge", "request_id", requestID, "idempotency_key", key)
			return toResponse(prev.Result), nil
		}
	}

	res, err := s.gateway.Charge(ctx, req.Amount, req.PaymentMethod)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	slog.InfoContext(ctx, "charge processed",
		"request_id", requestID,
		"amount", req.Amount.StringFixed(2),
		"payment_method", req.PaymentMethod,
		"success", res.Success,
		"payment_id", res.PaymentID,
	)

	if key != "" {
		rec := ChargeRecord{Amount: req.Amount, PaymentMethod: req.PaymentMethod, Result: res}
		if err := s.charges.Set(ctx, key, rec); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "request_id", requestID, "error", err)
		}
	}
	return toResponse(res), nil
}

func toResponse(res entity.PaymentResult) *paymentrpc.ChargeResponse {
	return &paymentrpc.ChargeResponse{
		Success:   res.Success,
		PaymentID: res.PaymentID,
		Message:   res.Message,
	}
}
