package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/tradedesk/internal/handler"
	"github.com/dukerupert/tradedesk/internal/middleware"
)

// Pinger checks a dependency is reachable. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler. db may be nil when the
// service runs without a database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			middleware.GetLogger(r.Context()).WarnContext(r.Context(), "health check failed", "error", err)
			status["status"] = "unavailable"
			status["database"] = "unreachable"
			handler.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	handler.WriteJSON(w, http.StatusOK, status)
}
