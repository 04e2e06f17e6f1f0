package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userIDFrom extracts the authenticated user ID placed by authMiddleware.
func userIDFrom(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(userIDKey).(int32)
	return id, ok
}

func authMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Message: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Type != security.TokenTypeAccess {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Message: "invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
