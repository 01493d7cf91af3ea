package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/middleware"
)

// codedError is implemented by package-level error types (tax.TaxError,
// shipping.ShippingError) that carry a domain code without importing domain.
type codedError interface {
	error
	ErrorCode() string
	ErrorMessage() string
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EPAYMENT:
		return http.StatusPaymentRequired // 402
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.ENOTIMPL:
		return http.StatusNotImplemented // 501
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorCodeAndMessage resolves the code and user-facing message for err.
// Domain errors win; coded package errors come next; anything else is internal.
func errorCodeAndMessage(err error) (string, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		return domain.ErrorCode(err), domain.ErrorMessage(err)
	}

	var ce codedError
	if errors.As(err, &ce) {
		return ce.ErrorCode(), ce.ErrorMessage()
	}

	return domain.EINTERNAL, domain.ErrorMessage(err)
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse logs err and writes it to the client. JSON clients receive
// {"error":{"code","message"}}; others get plain text. Internal errors only
// ever expose a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code, message := errorCodeAndMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", errString(err),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}
	if status >= 500 {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		logger.InfoContext(r.Context(), "request rejected", attrs...)
	}

	if !acceptsJSON(r) {
		http.Error(w, message, status)
		return
	}

	WriteJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message},
	})
}

// ValidationErrorResponse writes field-level validation failures with 400.
// Non-validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).InfoContext(r.Context(), "validation failed",
		"fields", fields,
	)

	WriteJSON(w, http.StatusBadRequest, map[string]errorBody{
		"error": {
			Code:    domain.EINVALID,
			Message: "The request contains invalid fields",
			Fields:  fields,
		},
	})
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
