package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/dukerupert/tradedesk/internal/billing"
	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/pricing"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/go-playground/validator/v10"
)

// MaxQuoteLines caps the number of lines accepted in one quote request.
const MaxQuoteLines = 500

// ============================================================================
// REQUESTS
// ============================================================================

// QuoteRequest is the body of POST /api/quotes and /api/quotes/preview.
// Quantities are checked by the quote service so the error names the line.
type QuoteRequest struct {
	CompanyID string             `json:"company_id" validate:"required,max=64"`
	ShipTo    string             `json:"ship_to" validate:"required,len=2,alpha"`
	Lines     []QuoteLineRequest `json:"lines" validate:"required,min=1,max=500,dive"`
}

// QuoteLineRequest is one requested product and quantity.
type QuoteLineRequest struct {
	ProductCode string `json:"product_code" validate:"required,max=64"`
	Quantity    int    `json:"quantity"`
}

// LineRequests converts the request lines to domain line requests.
func (q QuoteRequest) LineRequests() []domain.LineRequest {
	lines := make([]domain.LineRequest, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = domain.LineRequest{
			ProductCode: strings.TrimSpace(l.ProductCode),
			Quantity:    l.Quantity,
		}
	}
	return lines
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts failures to a
// domain.ValidationError keyed by JSON path (e.g. "lines[0].product_code").
func validateRequest(v *validator.Validate, op string, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, op, "failed to validate request")
	}

	var result error
	for _, fe := range verrs {
		result = domain.AddFieldError(result, fieldPath(fe), fieldMessage(fe))
	}
	if ve, ok := result.(*domain.ValidationError); ok {
		ve.Op = op
	}
	return result
}

// fieldPath strips the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "alpha":
		return "must contain only letters"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(r *http.Request, op string, dst any) error {
	if r.Body == nil {
		return domain.Invalid(op, "Request body is required")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.Invalid(op, "Request body too large")
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "Request body is required")
		default:
			return &domain.Error{Code: domain.EINVALID, Op: op, Message: "Invalid JSON body", Err: err}
		}
	}

	if dec.More() {
		return domain.Invalid(op, "Request body must contain a single JSON object")
	}
	return nil
}

// ============================================================================
// RESPONSES
// ============================================================================

// Money amounts are rendered as fixed two-place decimal strings so clients
// never see binary floating point.

// QuoteResponse is the JSON view of a priced quote.
type QuoteResponse struct {
	ID        string     `json:"id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`

	CompanyID string `json:"company_id"`
	ShipTo    string `json:"ship_to"`
	Region    string `json:"region"`
	Currency  string `json:"currency"`

	Lines []QuoteLineResponse `json:"lines"`

	Subtotal        string `json:"subtotal"`
	Shipping        string `json:"shipping"`
	ShippingMatched bool   `json:"shipping_matched"`
	ShippingRule    string `json:"shipping_rule,omitempty"`
	VATRate         string `json:"vat_rate"`
	VATAmount       string `json:"vat_amount"`
	VATTreatment    string `json:"vat_treatment"`
	VATExemptReason string `json:"vat_exempt_reason,omitempty"`
	Total           string `json:"total"`
}

// QuoteLineResponse is one priced line.
type QuoteLineResponse struct {
	ProductCode    string `json:"product_code"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	PriceSource    string `json:"price_source"`
	PriceDefaulted bool   `json:"price_defaulted,omitempty"`
	LineTotal      string `json:"line_total"`
}

func newQuoteResponse(q *service.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:              q.ID,
		CompanyID:       q.CompanyID,
		ShipTo:          q.Destination,
		Region:          string(q.Region),
		Currency:        q.Currency,
		Lines:           make([]QuoteLineResponse, len(q.Lines)),
		Subtotal:        q.Totals.Subtotal.StringFixed(2),
		Shipping:        q.Totals.PredictedShipping.StringFixed(2),
		ShippingMatched: q.ShippingMatched,
		ShippingRule:    q.ShippingRule,
		VATRate:         q.Totals.VATRate.String(),
		VATAmount:       q.Totals.VATAmount.StringFixed(2),
		VATTreatment:    q.VATTreatment(),
		VATExemptReason: q.Totals.VATExemptReason,
		Total:           q.Totals.Total.StringFixed(2),
	}
	if !q.CreatedAt.IsZero() {
		created := q.CreatedAt.UTC()
		resp.CreatedAt = &created
	}

	for i, l := range q.Lines {
		resp.Lines[i] = QuoteLineResponse{
			ProductCode:    l.ProductCode,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.StringFixed(2),
			PriceSource:    string(l.PriceSource),
			PriceDefaulted: l.PriceDefaulted,
			LineTotal:      l.LineTotal.StringFixed(2),
		}
	}
	return resp
}

// PaymentIntentResponse carries what the frontend needs to confirm payment.
type PaymentIntentResponse struct {
	QuoteID      string `json:"quote_id"`
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountMinor  int64  `json:"amount_minor"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func newPaymentIntentResponse(quoteID string, pi *billing.PaymentIntent) PaymentIntentResponse {
	return PaymentIntentResponse{
		QuoteID:      quoteID,
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.AmountMinor,
		Currency:     pi.Currency,
		Status:       pi.Status,
	}
}

// CatalogResponse lists every active product priced for one company.
type CatalogResponse struct {
	CompanyID   string             `json:"company_id"`
	CompanyType string             `json:"company_type"`
	Products    []CatalogItemPrice `json:"products"`
}

// CatalogItemPrice is one product with its resolved unit price.
type CatalogItemPrice struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	Type           string `json:"type"`
	Currency       string `json:"currency,omitempty"`
	UnitPrice      string `json:"unit_price"`
	PriceSource    string `json:"price_source"`
	PriceDefaulted bool   `json:"price_defaulted,omitempty"`
}

func newCatalogResponse(company *domain.Company, entries []pricing.CatalogEntry) CatalogResponse {
	resp := CatalogResponse{
		CompanyID:   company.ID,
		CompanyType: string(company.Type),
		Products:    make([]CatalogItemPrice, len(entries)),
	}
	for i, e := range entries {
		resp.Products[i] = CatalogItemPrice{
			Code:           e.Product.Code,
			Name:           e.Product.Name,
			Category:       e.Product.Category,
			Type:           string(e.Product.Type),
			Currency:       e.Product.Currency,
			UnitPrice:      e.Resolution.UnitPrice.StringFixed(2),
			PriceSource:    string(e.Resolution.Source),
			PriceDefaulted: e.Resolution.Defaulted,
		}
	}
	return resp
}

// VATResponse is the VAT treatment of one taxable amount.
type VATResponse struct {
	Country         string `json:"country"`
	Region          string `json:"region"`
	Taxable         string `json:"taxable"`
	VATRate         string `json:"vat_rate"`
	VATAmount       string `json:"vat_amount"`
	VATTreatment    string `json:"vat_treatment"`
	VATExemptReason string `json:"vat_exempt_reason,omitempty"`
	Total           string `json:"total"`
}
