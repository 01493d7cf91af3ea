package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/handler"
	"github.com/dukerupert/tradedesk/internal/pricing"
)

// CatalogStore is the read side needed to list a company's prices.
// postgres.Store and pricing.MemoryStore implement it.
type CatalogStore interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogPricer prices a list of products for one company.
type CatalogPricer interface {
	ResolveCatalog(ctx context.Context, company domain.Company, products []domain.Product) ([]pricing.CatalogEntry, error)
}

// CatalogHandler serves per-company price lists.
type CatalogHandler struct {
	store  CatalogStore
	pricer CatalogPricer
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(store CatalogStore, pricer CatalogPricer) *CatalogHandler {
	return &CatalogHandler{store: store, pricer: pricer}
}

// Prices handles GET /api/companies/{id}/prices
func (h *CatalogHandler) Prices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	company, err := h.store.GetCompany(ctx, r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	products, err := h.store.ListActiveProducts(ctx)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	entries, err := h.pricer.ResolveCatalog(ctx, *company, products)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, newCatalogResponse(company, entries))
}
