package middleware

import "net/http"

// SessionChecker reports whether a session is active. Satisfied by the
// auth manager; its unauthorized side effect fires on a false answer.
type SessionChecker interface {
	RequireAuth() bool
}

// RequireSession rejects requests with 401 when no session is active.
// Routes behind it can assume an authenticated identity.
func RequireSession(auth SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.RequireAuth() {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
