package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/amar4h/rituyog-booking/internal/api/handlers"
)

type userIDKey struct{}

// Auth requires an X-User-ID header on protected routes. Authentication
// itself lives in the gateway; this service only needs the caller identity
// for audit logs.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "X-User-ID header is required")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "X-User-ID header must be a positive integer")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the caller identity set by Auth. The second return value
// is false on routes that skipped the middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
