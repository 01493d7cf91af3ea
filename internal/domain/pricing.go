package domain

import "github.com/shopspring/decimal"

// PriceSource tags which level of the override hierarchy produced a unit price.
type PriceSource string

const (
	PriceSourceCustom   PriceSource = "CUSTOM"
	PriceSourceStandard PriceSource = "STANDARD"
	PriceSourceBase     PriceSource = "BASE"
)

// LineRequest is one requested (product, quantity) pair.
type LineRequest struct {
	ProductCode string
	Quantity    int
}

// OrderLine is a priced line. UnitPrice is the resolver output and must not
// be recomputed downstream without resolving again.
type OrderLine struct {
	ProductCode string
	Quantity    int
	UnitPrice   decimal.Decimal
	PriceSource PriceSource
	// PriceDefaulted is set when the product had no base price and 0 was used.
	PriceDefaulted bool
	LineTotal      decimal.Decimal
}

// OrderTotals is the priced summary of an order or quote.
//
// Total = Subtotal + PredictedShipping + VATAmount. VATExemptReason is empty
// when VAT is charged.
type OrderTotals struct {
	Subtotal          decimal.Decimal
	PredictedShipping decimal.Decimal
	VATRate           decimal.Decimal
	VATAmount         decimal.Decimal
	VATExemptReason   string
	Total             decimal.Decimal
}

// Taxable returns the VAT base (subtotal plus shipping).
func (t OrderTotals) Taxable() decimal.Decimal {
	return t.Subtotal.Add(t.PredictedShipping)
}

// Exempt reports whether the totals carry a VAT exemption.
func (t OrderTotals) Exempt() bool {
	return t.VATExemptReason != ""
}
