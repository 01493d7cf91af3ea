package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TraceHeader carries the quote trace ID. An upstream proxy may set it;
// it is echoed on every response so a caller can quote it back when
// reporting a pricing problem.
const TraceHeader = "X-Request-ID"

// maxTraceIDLen caps inbound trace IDs before they reach the logs.
const maxTraceIDLen = 64

type traceIDKey struct{}

// RequestID tags each request with a trace ID, reusing a well-formed
// inbound one and minting a UUID otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if !validTraceID(traceID) {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), traceIDKey{}, traceID)))
	})
}

// GetRequestID returns the trace ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// validTraceID accepts short IDs of letters, digits and - _ . : only.
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
