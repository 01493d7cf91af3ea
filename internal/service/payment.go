package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/tradedesk/internal/billing"
	"github.com/dukerupert/tradedesk/internal/domain"
)

// PaymentService takes payment for persisted quotes.
type PaymentService interface {
	// CreateQuotePaymentIntent creates a payment intent for the stored total
	// of quote id. The quote ID is the idempotency key, so retries return
	// the same intent.
	CreateQuotePaymentIntent(ctx context.Context, quoteID string) (*billing.PaymentIntent, error)
}

type paymentService struct {
	quotes   QuoteService
	provider billing.Provider
	logger   *slog.Logger
}

// NewPaymentService creates a PaymentService. A nil provider disables payments.
func NewPaymentService(quotes QuoteService, provider billing.Provider, logger *slog.Logger) PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &paymentService{
		quotes:   quotes,
		provider: provider,
		logger:   logger,
	}
}

func (s *paymentService) CreateQuotePaymentIntent(ctx context.Context, quoteID string) (*billing.PaymentIntent, error) {
	const op = "payment.create_quote_intent"

	if s.provider == nil {
		return nil, ErrPaymentsDisabled
	}

	q, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !q.Totals.Total.IsPositive() {
		return nil, ErrZeroTotal
	}

	params := billing.CreatePaymentIntentParams{
		AmountMinor:    billing.ToMinorUnits(q.Totals.Total),
		Currency:       strings.ToLower(q.Currency),
		Description:    "Quote " + q.ID,
		IdempotencyKey: "quote_" + q.ID,
		Metadata:       paymentMetadata(q),
	}

	pi, err := s.provider.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, paymentError(op, err)
	}

	s.logger.InfoContext(ctx, "payment intent created for quote",
		slog.String("quote_id", q.ID),
		slog.String("payment_intent_id", pi.ID),
		slog.Int64("amount_minor", pi.AmountMinor),
	)
	return pi, nil
}

// paymentMetadata carries the quote breakdown so the charge can be
// reconciled against the quote without a lookup.
func paymentMetadata(q *Quote) map[string]string {
	md := map[string]string{
		"quote_id":    q.ID,
		"company_id":  q.CompanyID,
		"destination": q.Destination,
		"subtotal":    q.Totals.Subtotal.StringFixed(2),
		"shipping":    q.Totals.PredictedShipping.StringFixed(2),
		"vat_rate":    q.Totals.VATRate.String(),
		"vat_amount":  q.Totals.VATAmount.StringFixed(2),
		"total":       q.Totals.Total.StringFixed(2),
	}
	if q.Totals.VATExemptReason != "" {
		md["vat_exempt_reason"] = q.Totals.VATExemptReason
	}
	return md
}

func paymentError(op string, err error) error {
	if errors.Is(err, billing.ErrAmountTooSmall) {
		return domain.WrapError(err, domain.EINVALID, op, "Quote total is below the minimum card charge")
	}
	if errors.Is(err, billing.ErrIdempotencyConflict) {
		return domain.WrapError(err, domain.ECONFLICT, op, "A different payment is already in progress for this quote")
	}

	var se *billing.StripeError
	if errors.As(err, &se) && se.IsDeclined() {
		return domain.WrapError(err, domain.EPAYMENT, op, "Payment was declined")
	}
	if errors.Is(err, billing.ErrPaymentFailed) {
		return domain.WrapError(err, domain.EPAYMENT, op, "Payment failed")
	}
	return domain.Internal(err, op, "failed to create payment intent")
}
