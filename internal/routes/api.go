package routes

import (
	"net/http"

	"github.com/dukerupert/tradedesk/internal/middleware"
	"github.com/dukerupert/tradedesk/internal/router"
)

// RegisterAPIRoutes registers the pricing API.
//
// Health and metrics sit outside the rate limiter so health checks and scrapes
// are never throttled.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Get("/health", deps.HealthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	var limits []router.Middleware
	if deps.MaxBodyBytes > 0 {
		limits = append(limits, middleware.MaxBodySize(deps.MaxBodyBytes))
	} else {
		limits = append(limits, middleware.MaxBodySize())
	}
	limits = append(limits, middleware.RateLimit(deps.RateLimitPerMinute))
	api := r.Group(limits...)

	// Quotes
	api.Post("/api/quotes/preview", deps.QuoteHandler.Preview)
	api.Post("/api/quotes", deps.QuoteHandler.Create)
	api.Get("/api/quotes/{id}", deps.QuoteHandler.Get)
	api.Post("/api/quotes/{id}/payment-intent", deps.QuoteHandler.CreatePaymentIntent)

	// Catalog and VAT
	api.Get("/api/companies/{id}/prices", deps.CatalogHandler.Prices)
	api.Get("/api/vat", deps.VATHandler.Preview)
}
