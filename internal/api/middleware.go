// Package api implements the memopad HTTP API using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
// If enabled is true, requests must carry a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return authMiddleware(enabled, token, false)
}

// StreamAuthMiddleware is AuthMiddleware that also accepts the token as a
// ?token= query parameter. EventSource cannot set request headers.
func StreamAuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return authMiddleware(enabled, token, true)
}

func authMiddleware(enabled bool, token string, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			ok := strings.HasPrefix(auth, "Bearer ") && tokenEqual(strings.TrimPrefix(auth, "Bearer "), token)
			if !ok && allowQuery {
				if q := r.URL.Query().Get("token"); q != "" {
					ok = tokenEqual(q, token)
				}
			}
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
