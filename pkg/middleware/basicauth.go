package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
)

type authContextKey string

const authenticatedKey authContextKey = "authenticated"

// IsAuthenticated reports whether the request carried valid admin
// credentials.
func IsAuthenticated(ctx context.Context) bool {
	authenticated, ok := ctx.Value(authenticatedKey).(bool)
	return ok && authenticated
}

// BasicAuth middleware enforces HTTP basic authentication against the
// configured admin users.
func BasicAuth(users map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checkCredentials(r, users) {
				w.Header().Set("WWW-Authenticate", `Basic realm="Server Patrol"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authenticatedKey, true)))
		})
	}
}

// OptionalBasicAuth middleware accepts anonymous requests but records
// whether valid admin credentials were supplied, so public endpoints
// can widen their response for operators.
func OptionalBasicAuth(users map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authenticated := checkCredentials(r, users)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authenticatedKey, authenticated)))
		})
	}
}

func checkCredentials(r *http.Request, users map[string]string) bool {
	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}

	expected, exists := users[username]
	if !exists {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}
