package pricing

import (
	"context"
	"sort"
	"sync"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory Store, also serving company and catalog lookups.
// It backs tests and fixture-driven quoting in the CLI.
type MemoryStore struct {
	mu           sync.RWMutex
	companies    map[string]domain.Company
	products     map[string]domain.Product
	distributor  map[string]decimal.Decimal
	customPrices map[customKey]decimal.Decimal
}

type customKey struct {
	companyID string
	code      string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies:    make(map[string]domain.Company),
		products:     make(map[string]domain.Product),
		distributor:  make(map[string]decimal.Decimal),
		customPrices: make(map[customKey]decimal.Decimal),
	}
}

// PutCompany inserts or replaces a company.
func (s *MemoryStore) PutCompany(c domain.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

// PutProduct inserts or replaces a product.
func (s *MemoryStore) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Code] = p
}

// SetDistributorPrice sets the distributor standard price for code.
func (s *MemoryStore) SetDistributorPrice(code string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distributor[code] = price
}

// SetCustomPrice sets the negotiated price for (companyID, code).
func (s *MemoryStore) SetCustomPrice(companyID, code string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customPrices[customKey{companyID, code}] = price
}

// DeleteCustomPrice removes a negotiated price.
func (s *MemoryStore) DeleteCustomPrice(companyID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customPrices, customKey{companyID, code})
}

// GetCompany implements service.CompanyStore.
func (s *MemoryStore) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, domain.NotFound("memory.get_company", "company", id)
	}
	return &c, nil
}

// GetProduct implements Store.
func (s *MemoryStore) GetProduct(ctx context.Context, code string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[code]
	if !ok {
		return nil, domain.NotFound("memory.get_product", "product", code)
	}
	return &p, nil
}

// GetDistributorPrice implements Store.
func (s *MemoryStore) GetDistributorPrice(ctx context.Context, code string) (*domain.DistributorPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.distributor[code]
	if !ok {
		return nil, domain.NotFound("memory.get_distributor_price", "distributor price", code)
	}
	return &domain.DistributorPrice{ProductCode: code, Price: price}, nil
}

// GetCustomPrice implements Store.
func (s *MemoryStore) GetCustomPrice(ctx context.Context, companyID, code string) (*domain.CustomPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.customPrices[customKey{companyID, code}]
	if !ok {
		return nil, domain.NotFound("memory.get_custom_price", "custom price", companyID+"/"+code)
	}
	return &domain.CustomPrice{CompanyID: companyID, ProductCode: code, Price: price}, nil
}

// ListActiveProducts returns active products ordered by code.
func (s *MemoryStore) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	return products, nil
}
