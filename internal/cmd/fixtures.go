package cmd

import (
	"fmt"
	"strings"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// fixtureFile is the layout of a catalog fixtures file (see config/fixtures.yaml).
type fixtureFile struct {
	Companies []struct {
		ID             string `mapstructure:"id"`
		Name           string `mapstructure:"name"`
		Type           string `mapstructure:"type"`
		VATNumber      string `mapstructure:"vat_number"`
		BillingCountry string `mapstructure:"billing_country"`
	} `mapstructure:"companies"`

	Products []struct {
		Code      string `mapstructure:"code"`
		Name      string `mapstructure:"name"`
		Category  string `mapstructure:"category"`
		Type      string `mapstructure:"type"`
		Inactive  bool   `mapstructure:"inactive"`
		BasePrice string `mapstructure:"base_price"`
	} `mapstructure:"products"`

	DistributorPrices []struct {
		ProductCode string `mapstructure:"product_code"`
		Price       string `mapstructure:"price"`
	} `mapstructure:"distributor_prices"`

	CustomPrices []struct {
		CompanyID   string `mapstructure:"company_id"`
		ProductCode string `mapstructure:"product_code"`
		Price       string `mapstructure:"price"`
	} `mapstructure:"custom_prices"`
}

// loadFixtures reads a fixtures file into an in-memory store.
func loadFixtures(path, currency string) (*pricing.MemoryStore, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}

	var f fixtureFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures %s: %w", path, err)
	}

	store := pricing.NewMemoryStore()

	for _, c := range f.Companies {
		companyType := domain.CompanyType(strings.ToLower(c.Type))
		if !companyType.Valid() {
			return nil, fmt.Errorf("company %s: unknown type %q", c.ID, c.Type)
		}
		store.PutCompany(domain.Company{
			ID:             c.ID,
			Name:           c.Name,
			Type:           companyType,
			VATNumber:      c.VATNumber,
			BillingCountry: strings.ToUpper(c.BillingCountry),
		})
	}

	for _, p := range f.Products {
		product := domain.Product{
			Code:     p.Code,
			Name:     p.Name,
			Category: p.Category,
			Type:     domain.ProductType(strings.ToLower(p.Type)),
			Active:   !p.Inactive,
			Currency: currency,
		}
		if p.BasePrice != "" {
			price, err := parsePrice(p.BasePrice)
			if err != nil {
				return nil, fmt.Errorf("product %s base price: %w", p.Code, err)
			}
			product.BasePrice = &price
		}
		store.PutProduct(product)
	}

	for _, dp := range f.DistributorPrices {
		price, err := parsePrice(dp.Price)
		if err != nil {
			return nil, fmt.Errorf("distributor price %s: %w", dp.ProductCode, err)
		}
		store.SetDistributorPrice(dp.ProductCode, price)
	}

	for _, cp := range f.CustomPrices {
		price, err := parsePrice(cp.Price)
		if err != nil {
			return nil, fmt.Errorf("custom price %s/%s: %w", cp.CompanyID, cp.ProductCode, err)
		}
		store.SetCustomPrice(cp.CompanyID, cp.ProductCode, price)
	}

	return store, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %s must not be negative", price)
	}
	return price, nil
}
