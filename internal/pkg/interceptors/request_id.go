// Package interceptors carries request and idempotency identifiers across the
// HTTP to gRPC boundary.
package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// WithRequestMetadata stores the identifiers in ctx and appends them to the
// outgoing gRPC metadata. Empty values are skipped.
func WithRequestMetadata(ctx context.Context, requestID, idempotencyKey string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, requestID)
	}
	if idempotencyKey != "" {
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXIdempotencyKey, idempotencyKey)
	}
	return ctx
}

// TraceServerInterceptor lifts the identifiers from incoming metadata into the
// handler's context and logs the call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := incoming(ctx, constants.HeaderXRequestId)
		idempotencyKey := incoming(ctx, constants.HeaderXIdempotencyKey)

		newCtx := context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		newCtx = context.WithValue(newCtx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		slog.InfoContext(newCtx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
		)
		return handler(newCtx, req)
	}
}

func RequestID(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.ContextKeyRequestID, constants.HeaderXRequestId)
}

func IdempotencyKey(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.ContextKeyIdempotencyKey, constants.HeaderXIdempotencyKey)
}

// GetMetadataValue looks for a value in ctx first, then in incoming and
// outgoing gRPC metadata under header.
func GetMetadataValue(ctx context.Context, key any, header string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if v := incoming(ctx, header); v != "" {
		return v
	}
	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(header); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func incoming(ctx context.Context, header string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(header); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
