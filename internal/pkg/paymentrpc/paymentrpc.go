// Package paymentrpc is the gRPC contract of the payment service.
//
// Messages travel as google.protobuf.Struct values so the contract needs no
// generated code:
//
//	ChargeRequest  {"amount": "<decimal string>", "paymentMethod": "<string>"}
//	ChargeResponse {"success": <bool>, "paymentId": "<string>", "message": "<string>"}
package paymentrpc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName  = "storefront.payment.v1.Payment"
	ChargeMethod = "/" + ServiceName + "/Charge"
)

type ChargeRequest struct {
	Amount        decimal.Decimal
	PaymentMethod string
}

type ChargeResponse struct {
	Success   bool
	PaymentID string
	Message   string
}

// PaymentServer is implemented by the payment service.
type PaymentServer interface {
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Charge", Handler: chargeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/payment/v1/payment.proto",
}

func RegisterPaymentServer(s grpc.ServiceRegistrar, srv PaymentServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func chargeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	handle := func(ctx context.Context, req any) (any, error) {
		r, err := DecodeChargeRequest(req.(*structpb.Struct))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		res, err := srv.(PaymentServer).Charge(ctx, r)
		if err != nil {
			return nil, err
		}
		return res.Encode(), nil
	}

	if interceptor == nil {
		return handle(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChargeMethod}
	return interceptor(ctx, in, info, handle)
}

// Client calls the payment service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewPaymentClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Charge(ctx context.Context, req *ChargeRequest, opts ...grpc.CallOption) (*ChargeResponse, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ChargeMethod, req.Encode(), out, opts...); err != nil {
		return nil, err
	}
	return DecodeChargeResponse(out)
}

func (r *ChargeRequest) Encode() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"amount":        structpb.NewStringValue(r.Amount.String()),
		"paymentMethod": structpb.NewStringValue(r.PaymentMethod),
	}}
}

func DecodeChargeRequest(s *structpb.Struct) (*ChargeRequest, error) {
	fields := s.GetFields()
	raw := fields["amount"].GetStringValue()
	if raw == "" {
		return nil, fmt.Errorf("paymentrpc: amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("paymentrpc: invalid amount %q: %w", raw, err)
	}
	return &ChargeRequest{
		Amount:        amount,
		PaymentMethod: fields["paymentMethod"].GetStringValue(),
	}, nil
}

func (r *ChargeResponse) Encode() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"success":   structpb.NewBoolValue(r.Success),
		"paymentId": structpb.NewStringValue(r.PaymentID),
		"message":   structpb.NewStringValue(r.Message),
	}}
}

func DecodeChargeResponse(s *structpb.Struct) (*ChargeResponse, error) {
	fields := s.GetFields()
	if _, ok := fields["success"]; !ok {
		return nil, fmt.Errorf("paymentrpc: response has no success field")
	}
	return &ChargeResponse{
		Success:   fields["success"].GetBoolValue(),
		PaymentID: fields["paymentId"].GetStringValue(),
		Message:   fields["message"].GetStringValue(),
	}, nil
}
