package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

type loggerKey struct{}

// WithRequestLogger stores a logger tagged with the request's method,
// path, client IP and trace ID. Chain it after RequestID.
func WithRequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("client_ip", GetClientIP(r)),
			}
			if traceID := GetRequestID(r.Context()); traceID != "" {
				attrs = append(attrs, slog.String("request_id", traceID))
			}

			ctx := context.WithValue(r.Context(), loggerKey{}, base.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request logger, else fallback[0], else slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
