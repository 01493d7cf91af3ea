package tax

import (
	"github.com/shopspring/decimal"
)

// Resolver decides the VAT treatment of a taxable amount.
// Implementations: VATResolver, MockResolver
type Resolver interface {
	// Resolve computes VAT on taxableAmount (subtotal plus shipping) for a
	// shipment to countryCode. vatNumber is the buyer's VAT registration
	// number, empty when absent.
	Resolve(taxableAmount decimal.Decimal, countryCode, vatNumber string) (Result, error)
}

// Result is the VAT treatment of a single taxable amount.
type Result struct {
	// Rate is a fraction: 0.20 means 20%.
	Rate decimal.Decimal

	// Amount is rounded to the currency minor unit.
	Amount decimal.Decimal

	// ExemptReason is empty when VAT is charged.
	ExemptReason string

	// Region is the classification of the destination country.
	Region Region
}

// Exempt reports whether VAT was not charged for an exemption reason.
func (r Result) Exempt() bool {
	return r.ExemptReason != ""
}
