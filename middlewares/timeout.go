package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/actionpack/internal"
)

// Timeout returns middleware that puts a deadline on the request context.
// Stores and actions observe it through c.Context(); the handler itself is
// not interrupted. A non-positive d disables the middleware.
func Timeout(d time.Duration) internal.Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
