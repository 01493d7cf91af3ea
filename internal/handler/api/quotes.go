package api

import (
	"net/http"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/handler"
	"github.com/dukerupert/tradedesk/internal/service"
	"github.com/go-playground/validator/v10"
)

// QuoteHandler serves quote calculation, persistence and payment routes.
type QuoteHandler struct {
	quotes    service.QuoteService
	payments  service.PaymentService
	validator *validator.Validate
}

// NewQuoteHandler creates a quote handler. payments may be nil when card
// payments are disabled; the payment route then answers 501.
func NewQuoteHandler(quotes service.QuoteService, payments service.PaymentService) *QuoteHandler {
	return &QuoteHandler{
		quotes:    quotes,
		payments:  payments,
		validator: newValidator(),
	}
}

// Preview handles POST /api/quotes/preview
// Prices the request without storing anything.
func (h *QuoteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	const op = "api.quote_preview"

	req, ok := h.readQuoteRequest(w, r, op)
	if !ok {
		return
	}

	quote, err := h.quotes.QuoteForCompany(r.Context(), req.CompanyID, req.LineRequests(), req.ShipTo)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, newQuoteResponse(quote))
}

// Create handles POST /api/quotes
// Prices and persists the request; the stored quote is returned with its ID.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "api.quote_create"

	req, ok := h.readQuoteRequest(w, r, op)
	if !ok {
		return
	}

	quote, err := h.quotes.CreateQuote(r.Context(), req.CompanyID, req.LineRequests(), req.ShipTo)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/quotes/"+quote.ID)
	handler.WriteJSON(w, http.StatusCreated, newQuoteResponse(quote))
}

// Get handles GET /api/quotes/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.GetQuote(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, newQuoteResponse(quote))
}

// CreatePaymentIntent handles POST /api/quotes/{id}/payment-intent
// Creates (or returns the existing) payment intent for the stored quote total.
func (h *QuoteHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		handler.ErrorResponse(w, r, service.ErrPaymentsDisabled)
		return
	}

	quoteID := r.PathValue("id")
	pi, err := h.payments.CreateQuotePaymentIntent(r.Context(), quoteID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, newPaymentIntentResponse(quoteID, pi))
}

func (h *QuoteHandler) readQuoteRequest(w http.ResponseWriter, r *http.Request, op string) (QuoteRequest, bool) {
	var req QuoteRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return req, false
	}

	if err := validateRequest(h.validator, op, req); err != nil {
		if domain.IsValidationError(err) {
			handler.ValidationErrorResponse(w, r, err)
		} else {
			handler.ErrorResponse(w, r, err)
		}
		return req, false
	}

	return req, true
}
