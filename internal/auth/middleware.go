package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const identityKey contextKey = "admin_identity"

// LoginPath is where unauthenticated admin traffic gets redirected.
const LoginPath = "/admin/login"

// AdmissionGate intercepts requests under the protected prefixes and redirects
// unauthenticated callers to the login page. It is routing policy only; every
// protected handler re-verifies the token through the same Guard.
func AdmissionGate(guard *Guard, protectedPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			// Canonical entry: the bare admin root always lands on the login page.
			if path == "/admin" || path == "/admin/" {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			if path == LoginPath || !underAny(path, protectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := guard.FromRequest(r)
			if err != nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func underAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Identity returns the authenticated admin identity stored by the gate.
func Identity(ctx context.Context) string {
	if id, ok := ctx.Value(identityKey).(string); ok {
		return id
	}
	return ""
}
