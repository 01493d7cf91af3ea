package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Store serves the read-only company, product and price lookups.
type Store struct {
	db DBTX
}

// Compile-time checks that Store serves both the pricing and service lookups.
var (
	_ pricing.Store        = (*Store)(nil)
	_ service.CompanyStore = (*Store)(nil)
)

// NewStore creates a PostgreSQL-backed lookup store.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

const getCompanySQL = `
SELECT id, name, company_type, vat_number, billing_country,
       billing_line1, billing_line2, billing_city, billing_region, billing_postcode
FROM companies
WHERE id = $1`

// GetCompany returns the company with the given ID.
func (s *Store) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	const op = "postgres.get_company"

	var (
		c        domain.Company
		typ      string
		postcode string
	)
	err := s.db.QueryRow(ctx, getCompanySQL, id).Scan(
		&c.ID, &c.Name, &typ, &c.VATNumber, &c.BillingCountry,
		&c.BillingAddress.Line1, &c.BillingAddress.Line2, &c.BillingAddress.City,
		&c.BillingAddress.Region, &postcode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "company", id)
		}
		return nil, domain.Internal(err, op, "failed to load company")
	}

	c.Type = domain.CompanyType(typ)
	if !c.Type.Valid() {
		return nil, domain.Errorf(domain.EINTERNAL, op, "company %s has unknown type %q", id, typ)
	}
	c.BillingAddress.PostalCode = postcode
	c.BillingAddress.Country = c.BillingCountry
	return &c, nil
}

const productColumns = `code, name, category, product_type, active, base_price, currency`

// GetProduct returns the product with the given code, active or not.
func (s *Store) GetProduct(ctx context.Context, code string) (*domain.Product, error) {
	const op = "postgres.get_product"

	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE code = $1`, code)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "product", code)
		}
		return nil, domain.Internal(err, op, "failed to load product")
	}
	return p, nil
}

// ListActiveProducts returns all active products ordered by code.
func (s *Store) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "postgres.list_active_products"

	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE active ORDER BY code`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to list products")
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p    domain.Product
		typ  string
		base pgtype.Numeric
	)
	if err := row.Scan(&p.Code, &p.Name, &p.Category, &typ, &p.Active, &base, &p.Currency); err != nil {
		return nil, err
	}
	p.Type = domain.ProductType(typ)

	price, err := decimalPtrFromNumeric(base)
	if err != nil {
		return nil, err
	}
	p.BasePrice = price
	return &p, nil
}

// GetDistributorPrice returns the distributor standard price for a product.
func (s *Store) GetDistributorPrice(ctx context.Context, code string) (*domain.DistributorPrice, error) {
	const op = "postgres.get_distributor_price"

	var price pgtype.Numeric
	err := s.db.QueryRow(ctx, `SELECT standard_price FROM distributor_prices WHERE product_code = $1`, code).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "distributor price", code)
		}
		return nil, domain.Internal(err, op, "failed to load distributor price")
	}

	d, err := decimalFromNumeric(price)
	if err != nil {
		return nil, domain.Internal(err, op, "invalid distributor price")
	}
	return &domain.DistributorPrice{ProductCode: code, Price: d}, nil
}

// GetCustomPrice returns the price negotiated for one company and product.
func (s *Store) GetCustomPrice(ctx context.Context, companyID, code string) (*domain.CustomPrice, error) {
	const op = "postgres.get_custom_price"

	var price pgtype.Numeric
	err := s.db.QueryRow(ctx,
		`SELECT custom_price FROM company_custom_prices WHERE company_id = $1 AND product_code = $2`,
		companyID, code,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "custom price", companyID+"/"+code)
		}
		return nil, domain.Internal(err, op, "failed to load custom price")
	}

	d, err := decimalFromNumeric(price)
	if err != nil {
		return nil, domain.Internal(err, op, "invalid custom price")
	}
	return &domain.CustomPrice{CompanyID: companyID, ProductCode: code, Price: d}, nil
}
