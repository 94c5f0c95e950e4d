package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata copies the chi request ID and the caller's
// idempotency key into the request context and echoes the request ID.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestId)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		if requestId != "" {
			w.Header().Set(constants.HeaderXRequestId, requestId)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
