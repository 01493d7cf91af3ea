package api

import (
	"net/http"
	"strings"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/handler"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/dukerupert/tradedesk/internal/tax"
	"github.com/shopspring/decimal"
)

// VATHandler previews the VAT treatment of an amount.
type VATHandler struct {
	vat   tax.Resolver
	rules *tax.Rules
}

// NewVATHandler creates a VAT preview handler. rules normalizes the
// country code echoed back; nil uses the default rules.
func NewVATHandler(vat tax.Resolver, rules *tax.Rules) *VATHandler {
	if rules == nil {
		rules = tax.DefaultRules()
	}
	return &VATHandler{vat: vat, rules: rules}
}

// Preview handles GET /api/vat?country=DE&vat_number=DE123&amount=100.00
// amount is the taxable amount (subtotal plus shipping).
func (h *VATHandler) Preview(w http.ResponseWriter, r *http.Request) {
	const op = "api.vat_preview"
	q := r.URL.Query()

	country := strings.TrimSpace(q.Get("country"))
	if country == "" {
		handler.ValidationErrorResponse(w, r, domain.NewValidationError(op, "country", "is required"))
		return
	}

	amountStr := strings.TrimSpace(q.Get("amount"))
	if amountStr == "" {
		handler.ValidationErrorResponse(w, r, domain.NewValidationError(op, "amount", "is required"))
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		handler.ValidationErrorResponse(w, r, domain.NewValidationError(op, "amount", "must be a decimal number"))
		return
	}

	res, err := h.vat.Resolve(amount, country, strings.TrimSpace(q.Get("vat_number")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, VATResponse{
		Country:         h.rules.Normalize(country),
		Region:          string(res.Region),
		Taxable:         amount.StringFixed(2),
		VATRate:         res.Rate.String(),
		VATAmount:       res.Amount.StringFixed(2),
		VATTreatment:    service.VATTreatmentFor(res.ExemptReason),
		VATExemptReason: res.ExemptReason,
		Total:           amount.Add(res.Amount).StringFixed(2),
	})
}
