// Package api implements the folio HTTP API using chi.
package api

import (
	"net"
	"net/http"

	"github.com/starford/folio/internal/site"
)

// RateLimitMiddleware rejects requests from a client address that exceeded
// the limiter's budget. Place it after middleware.RealIP.
func RateLimitMiddleware(l *site.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l != nil && !l.Allow(clientIP(r)) {
				writeJSON(w, http.StatusTooManyRequests, errorBody("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
