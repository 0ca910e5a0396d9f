package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ozank/kapici/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFromContext returns the verified token claims stored by Verify.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// Verify checks the Bearer token on every request and stores its claims in
// the request context. Requests without a valid token are rejected.
func Verify(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := svc.ParseToken(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects requests whose token does not carry the staff role.
// It must run after Verify.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "staff access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
