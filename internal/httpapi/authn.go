package httpapi

import (
	"net/http"

	"reeflog.org/internal/auth"
)

// requireUser gates a handler behind a valid access cookie. Every failure
// mode (missing cookie, malformed token, expired token, deleted subject)
// produces the same 401 so a caller cannot probe which one occurred.
func (a *API) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(accessCookie)
		if err != nil || cookie.Value == "" {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := a.auth.Identity(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := auth.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
