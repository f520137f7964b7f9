package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/knockout/internal/api/apierr"
	"github.com/mcoot/knockout/internal/services/auth"
)

// BridgeAuth creates middleware that requires the host relay's bridge token
func BridgeAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authService.Verify(extractToken(r)); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
