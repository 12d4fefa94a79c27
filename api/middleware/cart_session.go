package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/villageessence/marketplace-backend/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the shopper's cart session id from the request
// header, minting a fresh one when absent, and echoes it on the response so
// clients can persist it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" || len(sessionID) > 128 {
				sessionID = uuid.NewString()
			}

			w.Header().Set(cartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
