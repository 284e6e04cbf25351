package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/kbukum/eurekakit/errors"
	"github.com/kbukum/eurekakit/resilience"
)

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}

func TestErrorCode_String(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeTimeout:     "timeout",
		ErrCodeConnection:  "connection",
		ErrCodeCircuitOpen: "circuit_open",
		ErrCodeValidation:  "validation",
		ErrCodeStatus:      "status",
		ErrorCode(99):      "unknown",
	}
	for code, want := range tests {
		if code.String() != want {
			t.Errorf("expected %q, got %q", want, code.String())
		}
	}
}

func TestError_Error(t *testing.T) {
	e := NewStatusError(503, nil)
	if !strings.Contains(e.Error(), "HTTP 503") {
		t.Errorf("expected status in message, got %q", e.Error())
	}
	e = NewConnectionError(fmt.Errorf("refused"))
	if !strings.Contains(e.Error(), "connection: refused") {
		t.Errorf("unexpected message %q", e.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	if !errors.Is(NewConnectionError(cause), cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !errors.Is(NewCircuitOpenError(), resilience.ErrCircuitOpen) {
		t.Error("expected circuit open error to wrap resilience.ErrCircuitOpen")
	}
}

func TestNewStatusError_Retryable(t *testing.T) {
	tests := map[int]bool{404: false, 400: false, 429: true, 500: true, 503: true}
	for status, want := range tests {
		if got := NewStatusError(status, nil).Retryable; got != want {
			t.Errorf("status %d: expected retryable=%v, got %v", status, want, got)
		}
	}
}

func TestError_AppError(t *testing.T) {
	tests := []struct {
		err  *Error
		code apperrors.ErrorCode
	}{
		{NewTimeoutError(fmt.Errorf("t")), apperrors.ErrCodeTimeout},
		{NewConnectionError(fmt.Errorf("c")), apperrors.ErrCodeConnectionFailed},
		{NewCircuitOpenError(), apperrors.ErrCodeServiceUnavailable},
		{NewValidationError("bad"), apperrors.ErrCodeInvalidInput},
		{NewStatusError(502, nil), apperrors.ErrCodeServiceUnavailable},
	}
	for _, tc := range tests {
		got := tc.err.AppError()
		if got.Code != tc.code {
			t.Errorf("%s: expected %s, got %s", tc.err.Code, tc.code, got.Code)
		}
		if !errors.Is(got, tc.err) {
			t.Errorf("%s: expected AppError to wrap the transport error", tc.err.Code)
		}
	}

	if apperrors.From(fmt.Errorf("wrap: %w", NewConnectionError(fmt.Errorf("x")))).Code != apperrors.ErrCodeConnectionFailed {
		t.Error("expected errors.From to use the AppError conversion")
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewTimeoutError(fmt.Errorf("deadline")))
	if !IsTimeout(wrapped) || IsConnection(wrapped) || IsCircuitOpen(wrapped) {
		t.Error("expected only IsTimeout to match")
	}
	if !IsRetryable(wrapped) {
		t.Error("expected timeout to be retryable")
	}
	if IsRetryable(NewValidationError("x")) {
		t.Error("expected validation error to not be retryable")
	}
	if IsTimeout(fmt.Errorf("plain")) {
		t.Error("expected plain error to not match")
	}
}
