package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
)

// UnaryServerInterceptor reads the request ID and idempotency key from the
// incoming metadata into the context and logs every call. A request ID is
// generated when the caller sends none.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := GetMetadataValue(ctx, constants.HeaderXRequestId)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		idempotencyKey := GetMetadataValue(ctx, constants.HeaderXIdempotencyKey)

		newCtx := context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		newCtx = context.WithValue(newCtx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		start := time.Now()
		resp, err := handler(newCtx, req)

		slog.DebugContext(newCtx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// GetMetadataValue returns key from the context values first, then from the
// incoming gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	switch key {
	case constants.HeaderXRequestId:
		if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
			return id
		}
	case constants.HeaderXIdempotencyKey:
		if id, ok := ctx.Value(constants.ContextKeyIdempotencyKey).(string); ok && id != "" {
			return id
		}
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
