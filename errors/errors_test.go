package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidState, "bad state", http.StatusConflict)
	if err.Code != ErrCodeInvalidState {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidState, err.Code)
	}
	if err.Message != "bad state" {
		t.Errorf("expected message 'bad state', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("INVALID_STATE should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_RegistrationFailed(t *testing.T) {
	err := RegistrationFailed("ORDERS", 500)
	if err.Code != ErrCodeRegistrationFailed {
		t.Errorf("expected REGISTRATION_FAILED, got %s", err.Code)
	}
	if err.Details["app"] != "ORDERS" {
		t.Errorf("expected app=ORDERS, got %v", err.Details["app"])
	}
	if err.Details["status_code"] != 500 {
		t.Errorf("expected status_code=500, got %v", err.Details["status_code"])
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable")
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("app_name", "required")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "app_name" {
		t.Errorf("expected field=app_name, got %v", err.Details["field"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InstanceLookupFailed("billing").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InstanceLookupFailed("billing").WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["service"] != "billing" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("registry"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"ConnectionFailed", ConnectionFailed("registry"), ErrCodeConnectionFailed, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("register"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"RegistrationFailed", RegistrationFailed("A", 500), ErrCodeRegistrationFailed, http.StatusBadGateway, true},
		{"DeregistrationFailed", DeregistrationFailed("A", "i", 404), ErrCodeDeregistrationFailed, http.StatusBadGateway, false},
		{"HeartbeatFailed", HeartbeatFailed("A", "i", 404), ErrCodeHeartbeatFailed, http.StatusBadGateway, true},
		{"InstanceLookupFailed", InstanceLookupFailed("B"), ErrCodeInstanceLookupFailed, http.StatusServiceUnavailable, true},
		{"InvalidState", InvalidState("register", "Registered"), ErrCodeInvalidState, http.StatusConflict, false},
		{"MissingField", MissingField("name"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestErrorCode_IsRetryableCode_Table(t *testing.T) {
	retryable := []ErrorCode{ErrCodeServiceUnavailable, ErrCodeConnectionFailed, ErrCodeTimeout, ErrCodeRegistrationFailed, ErrCodeInstanceLookupFailed}
	for _, code := range retryable {
		if !IsRetryableCode(code) {
			t.Errorf("expected %s to be retryable", code)
		}
	}

	nonRetryable := []ErrorCode{ErrCodeInvalidInput, ErrCodeInvalidState, ErrCodeDeregistrationFailed, ErrCodeInternal}
	for _, code := range nonRetryable {
		if IsRetryableCode(code) {
			t.Errorf("expected %s to NOT be retryable", code)
		}
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := InstanceLookupFailed("billing").ToResponse()
	if resp.Error.Code != ErrCodeInstanceLookupFailed {
		t.Errorf("expected code INSTANCE_LOOKUP_FAILED in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["service"] != "billing" {
		t.Error("expected service=billing in response details")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Internal(nil))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

type domainErr struct{ service string }

func (e *domainErr) Error() string       { return "lookup " + e.service }
func (e *domainErr) AppError() *AppError { return InstanceLookupFailed(e.service) }

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("From(nil) should return nil")
	}

	orig := InvalidState("register", "Registered")
	if got := From(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("From should return the wrapped AppError unchanged")
	}

	got := From(fmt.Errorf("outer: %w", &domainErr{service: "billing"}))
	if got.Code != ErrCodeInstanceLookupFailed {
		t.Errorf("expected INSTANCE_LOOKUP_FAILED, got %s", got.Code)
	}

	plain := fmt.Errorf("something broke")
	got = From(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}
