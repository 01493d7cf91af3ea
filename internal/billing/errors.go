package billing

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v83"
)

var (
	// ErrAmountTooSmall is returned when the amount is below Stripe's GBP minimum.
	ErrAmountTooSmall = errors.New("billing: amount too small (minimum £0.30)")

	// ErrPaymentFailed is returned when the provider rejects the charge.
	ErrPaymentFailed = errors.New("billing: payment failed")

	// ErrIdempotencyConflict is returned when an idempotency key matches a different request.
	ErrIdempotencyConflict = errors.New("billing: idempotency key conflict")
)

// StripeError wraps a Stripe API error with additional context.
type StripeError struct {
	Message       string // Human-readable error message
	Code          string // Stripe error code (e.g., "card_declined")
	DeclineCode   string // Card decline reason (if applicable)
	HTTPStatus    int    // HTTP status code from Stripe
	RequestID     string // Stripe request ID for debugging
	OriginalError error  // Original error from Stripe SDK
}

func (e *StripeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %s", e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.OriginalError
}

// IsDeclined returns true if error is due to card decline.
func (e *StripeError) IsDeclined() bool {
	return e.Code == "card_declined" || e.DeclineCode != ""
}

// IsTemporary returns true if error is likely transient and retryable.
func (e *StripeError) IsTemporary() bool {
	return e.Code == "rate_limit" || e.HTTPStatus == 429 || e.HTTPStatus >= 500
}

// wrapStripeError converts Stripe SDK errors to StripeError.
func wrapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("stripe: %w", err)
	}

	wrapped := &StripeError{
		Message:       se.Msg,
		Code:          string(se.Code),
		DeclineCode:   string(se.DeclineCode),
		HTTPStatus:    se.HTTPStatusCode,
		RequestID:     se.RequestID,
		OriginalError: err,
	}
	if se.Code == stripe.ErrorCodeIdempotencyKeyInUse {
		wrapped.OriginalError = errors.Join(ErrIdempotencyConflict, err)
	}
	return wrapped
}
