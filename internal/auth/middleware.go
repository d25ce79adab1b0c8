package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const adminContextKey contextKey = "admin"

// Middleware guards admin routes with a bearer token. Rejections are
// generic: the response never distinguishes missing, malformed, and
// expired tokens.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims, err := ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin returns the verified admin claims, or nil outside an admin route.
func Admin(ctx context.Context) *Claims {
	claims, _ := ctx.Value(adminContextKey).(*Claims)
	return claims
}
