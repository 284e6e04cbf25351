package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Registry lifecycle errors
const (
	// ErrCodeRegistrationFailed indicates the registry rejected or never received a registration.
	ErrCodeRegistrationFailed ErrorCode = "REGISTRATION_FAILED"
	// ErrCodeDeregistrationFailed indicates the registry did not acknowledge a deregistration.
	ErrCodeDeregistrationFailed ErrorCode = "DEREGISTRATION_FAILED"
	// ErrCodeHeartbeatFailed indicates a lease renewal was not acknowledged.
	ErrCodeHeartbeatFailed ErrorCode = "HEARTBEAT_FAILED"
	// ErrCodeInstanceLookupFailed indicates neither the registry nor a fallback produced instances.
	ErrCodeInstanceLookupFailed ErrorCode = "INSTANCE_LOOKUP_FAILED"
	// ErrCodeInvalidState indicates an operation was called from the wrong lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable:   true,
	ErrCodeConnectionFailed:     true,
	ErrCodeTimeout:              true,
	ErrCodeRegistrationFailed:   true,
	ErrCodeHeartbeatFailed:      true,
	ErrCodeInstanceLookupFailed: true,
	ErrCodeDeregistrationFailed: false,
	ErrCodeInvalidState:         false,
	ErrCodeInternal:             false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Retryable means the caller may try again; nothing in this module retries on its own.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
