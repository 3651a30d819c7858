package session

import (
	"log/slog"
	"net/http"
)

const cookieName = "session_token"

// Middleware resolves the session cookie, when present, and attaches the
// identity to the request context. Requests without a valid session pass
// through untouched; whether anonymous requests are acceptable is the
// handler's decision.
func Middleware(store *Store, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, ok, err := store.Get(r.Context(), c.Value)
			if err != nil {
				log.Error("session lookup failed", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}
