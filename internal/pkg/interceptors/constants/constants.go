// Package constants holds the metadata keys shared by the HTTP edge and the
// gRPC services.
package constants

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	HeaderXRequestId      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	ContextKeyRequestID      contextKey = HeaderXRequestId
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)
