package pricing

import (
	"context"
	"log/slog"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrUnknownProduct is returned when a product code has no catalog row.
// Unknown products are a usage error, never priced at zero.
var ErrUnknownProduct = domain.Errorf(domain.EINVALID, "", "Unknown product code")

// Resolution is a resolved unit price and the override level that produced it.
type Resolution struct {
	ProductCode string
	UnitPrice   decimal.Decimal
	Source      domain.PriceSource

	// Defaulted is set when Source is BASE and the product has no base price,
	// so UnitPrice is a zero placeholder rather than a catalog figure.
	Defaulted bool
}

// Observer is notified of every resolution. telemetry.PricingMetrics implements it.
type Observer interface {
	ObservePriceResolution(source domain.PriceSource, defaulted bool)
}

// Resolver walks the price override hierarchy:
//
//  1. CUSTOM: a price negotiated for this company and product
//  2. STANDARD: the distributor price, for distributors and partners only
//  3. BASE: the product's catalog price, or 0 when it has none
//
// Resolver holds no state between calls.
type Resolver struct {
	store    Store
	logger   *slog.Logger
	observer Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for base-price default warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers an observer for resolutions.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// NewResolver creates a price resolver over store.
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveUnitPrice returns the unit price productCode sells at to the given company.
func (r *Resolver) ResolveUnitPrice(ctx context.Context, companyID string, companyType domain.CompanyType, productCode string) (Resolution, error) {
	const op = "pricing.resolve_unit_price"

	product, err := r.store.GetProduct(ctx, productCode)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return Resolution{}, &domain.Error{
				Code:    domain.EINVALID,
				Op:      op,
				Message: "Unknown product code: " + productCode,
				Err:     ErrUnknownProduct,
			}
		}
		return Resolution{}, domain.Internal(err, op, "failed to load product")
	}

	return r.resolve(ctx, companyID, companyType, product)
}

// CatalogEntry pairs a product with its resolved price for one company.
type CatalogEntry struct {
	Product    domain.Product
	Resolution Resolution
}

// ResolveCatalog prices every product in products for company, in order.
// Used by catalog listings and the admin price editor.
func (r *Resolver) ResolveCatalog(ctx context.Context, company domain.Company, products []domain.Product) ([]CatalogEntry, error) {
	entries := make([]CatalogEntry, 0, len(products))
	for i := range products {
		res, err := r.resolve(ctx, company.ID, company.Type, &products[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, CatalogEntry{Product: products[i], Resolution: res})
	}
	return entries, nil
}

func (r *Resolver) resolve(ctx context.Context, companyID string, companyType domain.CompanyType, product *domain.Product) (Resolution, error) {
	const op = "pricing.resolve"

	custom, err := r.store.GetCustomPrice(ctx, companyID, product.Code)
	switch {
	case err == nil:
		return r.accept(op, product.Code, custom.Price, domain.PriceSourceCustom, false)
	case !domain.IsCode(err, domain.ENOTFOUND):
		return Resolution{}, domain.Internal(err, op, "failed to load custom price")
	}

	if companyType.HasDistributorPricing() {
		standard, err := r.store.GetDistributorPrice(ctx, product.Code)
		switch {
		case err == nil:
			return r.accept(op, product.Code, standard.Price, domain.PriceSourceStandard, false)
		case !domain.IsCode(err, domain.ENOTFOUND):
			return Resolution{}, domain.Internal(err, op, "failed to load distributor price")
		}
	}

	if !product.HasBasePrice() {
		r.logger.WarnContext(ctx, "product has no base price, defaulting to zero",
			slog.String("product_code", product.Code),
			slog.String("company_id", companyID),
		)
		return r.accept(op, product.Code, decimal.Zero, domain.PriceSourceBase, true)
	}

	return r.accept(op, product.Code, *product.BasePrice, domain.PriceSourceBase, false)
}

func (r *Resolver) accept(op, code string, price decimal.Decimal, source domain.PriceSource, defaulted bool) (Resolution, error) {
	if price.IsNegative() {
		return Resolution{}, domain.Errorf(domain.EINTERNAL, op, "negative %s price stored for %s", source, code)
	}
	if r.observer != nil {
		r.observer.ObservePriceResolution(source, defaulted)
	}
	return Resolution{
		ProductCode: code,
		UnitPrice:   price,
		Source:      source,
		Defaulted:   defaulted,
	}, nil
}
