package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to requestsPerMinute requests.
// A non-positive limit disables rate limiting.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return GetClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests"))
		}),
	)
}

// GetClientIP extracts the client IP address from the request.
// Checks X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
// These headers can be spoofed unless a trusted proxy sets them.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
