package routes

import (
	"net/http"

	"github.com/dukerupert/tradedesk/internal/handler/api"
)

// APIDeps contains dependencies for the JSON API routes.
type APIDeps struct {
	QuoteHandler   *api.QuoteHandler
	CatalogHandler *api.CatalogHandler
	VATHandler     *api.VATHandler
	HealthHandler  *api.HealthHandler

	// MetricsHandler serves /metrics; nil leaves the route unregistered.
	MetricsHandler http.Handler

	// RateLimitPerMinute limits quote and VAT requests per client IP.
	// Zero disables limiting.
	RateLimitPerMinute int

	// MaxBodyBytes caps JSON request bodies; zero uses the middleware default.
	MaxBodyBytes int64
}
