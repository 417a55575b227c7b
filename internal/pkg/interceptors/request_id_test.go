package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

func TestWithRequestMetadata(t *testing.T) {
	ctx := WithRequestMetadata(context.Background(), "req-1", "")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, IdempotencyKey(ctx))

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"req-1"}, md.Get(constants.HeaderXRequestId))
	assert.Empty(t, md.Get(constants.HeaderXIdempotencyKey))
}

func TestTraceServerInterceptor(t *testing.T) {
	md := metadata.Pairs(constants.HeaderXRequestId, "req-9", constants.HeaderXIdempotencyKey, "key-9")
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var gotReq, gotKey string
	handler := func(ctx context.Context, req any) (any, error) {
		gotReq = RequestID(ctx)
		gotKey = IdempotencyKey(ctx)
		return "ok", nil
	}

	out, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/M"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "req-9", gotReq)
	assert.Equal(t, "key-9", gotKey)
}
