package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitPlaces is the number of decimal places VAT amounts are rounded to (pence).
const minorUnitPlaces = 2

// VATResolver applies the seller's VAT rules:
//
//   - domestic: standard rate
//   - EU with a VAT number: reverse charge, 0%
//   - EU without a VAT number: standard rate, as domestic
//   - rest of world: export, 0%
//
// Only the presence of a VAT number is checked, never its format.
//
// A charged sale whose VAT rounds to 0.00 reports a zero rate, so the
// amount is zero exactly when the rate is.
type VATResolver struct {
	rules *Rules
}

// NewVATResolver creates a resolver over the given rules.
// A nil rules value uses DefaultRules.
func NewVATResolver(rules *Rules) *VATResolver {
	if rules == nil {
		rules = DefaultRules()
	}
	return &VATResolver{rules: rules}
}

// Rules returns the classification rules in use.
func (v *VATResolver) Rules() *Rules {
	return v.rules
}

// Resolve computes the VAT treatment for taxableAmount shipped to countryCode.
func (v *VATResolver) Resolve(taxableAmount decimal.Decimal, countryCode, vatNumber string) (Result, error) {
	if taxableAmount.IsNegative() {
		return Result{}, ErrNegativeAmount
	}

	region := v.rules.Classify(countryCode)

	switch region {
	case RegionDomestic:
		return v.standard(taxableAmount, region), nil
	case RegionEU:
		if strings.TrimSpace(vatNumber) != "" {
			return exempt(ExemptReasonReverseCharge, region), nil
		}
		return v.standard(taxableAmount, region), nil
	default:
		return exempt(ExemptReasonExport, region), nil
	}
}

func (v *VATResolver) standard(taxableAmount decimal.Decimal, region Region) Result {
	amount := taxableAmount.Mul(v.rules.standardRate).Round(minorUnitPlaces)
	if amount.IsZero() {
		return Result{Rate: decimal.Zero, Amount: decimal.Zero, Region: region}
	}
	return Result{
		Rate:   v.rules.standardRate,
		Amount: amount,
		Region: region,
	}
}

func exempt(reason string, region Region) Result {
	return Result{
		Rate:         decimal.Zero,
		Amount:       decimal.Zero,
		ExemptReason: reason,
		Region:       region,
	}
}
