package domain

import "github.com/shopspring/decimal"

// ProductType is the catalog classification of a SKU.
type ProductType string

const (
	ProductTypeTool       ProductType = "tool"
	ProductTypeConsumable ProductType = "consumable"
	ProductTypeOther      ProductType = "other"
)

// Product is a sellable SKU in the catalog.
type Product struct {
	Code     string
	Name     string
	Category string
	Type     ProductType
	Active   bool

	// BasePrice is the list price in Currency. Nil when no price has been set.
	BasePrice *decimal.Decimal
	Currency  string
}

// HasBasePrice reports whether a base price is set.
func (p Product) HasBasePrice() bool {
	return p.BasePrice != nil
}

// DistributorPrice is the standard price applied to every distributor or
// partner for a product unless a company-specific price overrides it.
type DistributorPrice struct {
	ProductCode string
	Price       decimal.Decimal
}

// CustomPrice is a negotiated price for one company and one product.
type CustomPrice struct {
	CompanyID   string
	ProductCode string
	Price       decimal.Decimal
}
