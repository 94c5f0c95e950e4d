package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
)

// maxSessionIDLength bounds client supplied session IDs.
const maxSessionIDLength = 128

// Session identifies the cart of the caller. The X-Session-Id header is used
// when present; otherwise a new ID is generated. Either way it is echoed in
// the response so the client can keep using it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(constants.HeaderXSessionId)
		if sessionID == "" || len(sessionID) > maxSessionIDLength {
			sessionID = uuid.NewString()
		}

		w.Header().Set(constants.HeaderXSessionId, sessionID)
		ctx := context.WithValue(r.Context(), constants.ContextKeySessionID, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
