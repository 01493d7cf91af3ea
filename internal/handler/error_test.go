package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/tradedesk/internal/domain"
	"github.com/dukerupert/tradedesk/internal/shipping"
	"github.com/dukerupert/tradedesk/internal/tax"
)

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EPAYMENT, http.StatusPaymentRequired},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{domain.ENOTIMPL, http.StatusNotImplemented},
		{"unknown_code", http.StatusInternalServerError},
		{"unauthorized", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ErrorCodeToHTTPStatus(tt.code); got != tt.expected {
				t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found error",
			err:            domain.NotFound("quote.get", "quote", "q-123"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   domain.ENOTFOUND,
		},
		{
			name:           "invalid line",
			err:            domain.Invalid("quote.calculate", "line 1 (GUIL-01): Quantity must be greater than 0"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.EINVALID,
		},
		{
			name:           "wrapped domain error",
			err:            fmt.Errorf("handler: %w", domain.Errorf(domain.EPAYMENT, "payment.create", "Payment was declined")),
			expectedStatus: http.StatusPaymentRequired,
			expectedCode:   domain.EPAYMENT,
		},
		{
			name:           "tax error",
			err:            tax.ErrNegativeAmount,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.EINVALID,
		},
		{
			name:           "shipping error",
			err:            shipping.ErrUnknownRegion,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/json")
			}
			if env := decodeError(t, rec); env.Error.Code != tt.expectedCode {
				t.Errorf("error.code = %q, want %q", env.Error.Code, tt.expectedCode)
			}
		})
	}
}

func TestErrorResponse_PlainText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept", "text/plain")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, domain.NotFound("quote.get", "quote", "q-123"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Body.String() == "" {
		t.Error("response body should not be empty")
	}
}

func TestErrorResponse_InternalHidesDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	err := domain.Internal(nil, "postgres.get_product", "failed to connect to database at 192.168.1.100:5432")
	ErrorResponse(rec, req, err)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	expected := "An internal error occurred. Please try again later."
	if env := decodeError(t, rec); env.Error.Message != expected {
		t.Errorf("message = %q, want %q", env.Error.Message, expected)
	}
}

func TestValidationErrorResponse_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", nil)
	rec := httptest.NewRecorder()

	err := domain.NewValidationError("quote.request", "ship_to", "is required")
	err = domain.AddFieldError(err, "lines[0].quantity", "must be greater than 0")

	ValidationErrorResponse(rec, req, err)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	env := decodeError(t, rec)
	if env.Error.Code != domain.EINVALID {
		t.Errorf("error.code = %q, want %q", env.Error.Code, domain.EINVALID)
	}
	if len(env.Error.Fields) != 2 {
		t.Errorf("fields count = %d, want 2", len(env.Error.Fields))
	}
	if env.Error.Fields["ship_to"] != "is required" {
		t.Errorf("fields[ship_to] = %q, want %q", env.Error.Fields["ship_to"], "is required")
	}
}

func TestValidationErrorResponse_NonValidationError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	ValidationErrorResponse(rec, req, domain.NotFound("company.get", "company", "c-1"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		name        string
		accept      string
		contentType string
		path        string
		expected    bool
	}{
		{name: "application/json in Accept", accept: "application/json", expected: true},
		{name: "application/json with charset", accept: "application/json; charset=utf-8", expected: true},
		{name: "application/json in Content-Type", contentType: "application/json", expected: true},
		{name: "api path", path: "/api/quotes", expected: true},
		{name: ".json extension in path", path: "/export/prices.json", expected: true},
		{name: "text/plain Accept", accept: "text/plain", path: "/health"},
		{name: "no headers", path: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "/test"
			}

			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			if got := acceptsJSON(req); got != tt.expected {
				t.Errorf("acceptsJSON() = %v, want %v", got, tt.expected)
			}
		})
	}
}
