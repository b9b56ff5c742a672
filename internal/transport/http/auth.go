package http

import (
	"net/http"
	"strings"
)

// TokenVerifier accepts or rejects admin bearer tokens.
type TokenVerifier interface {
	Verify(token string) error
}

// requireAdmin rejects requests without a valid "Authorization: Bearer <token>" header.
func requireAdmin(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "token missing")
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "expected Bearer <token>")
				return
			}
			if err := tokens.Verify(token); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
