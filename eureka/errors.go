package eureka

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/eurekakit/errors"
)

// ErrInvalidState is matched by errors returned when an operation is not
// allowed in the client's current state.
var ErrInvalidState = errors.New("eureka: invalid state")

// errNoInstanceData marks a 200 response without instances.
var errNoInstanceData = errors.New("eureka: response has no instance data")

// StateError reports a lifecycle operation attempted in the wrong state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("eureka: cannot %s in state %s", e.Op, e.State)
}

// Is matches ErrInvalidState.
func (e *StateError) Is(target error) bool { return target == ErrInvalidState }

// AppError converts the error for API responses.
func (e *StateError) AppError() *apperrors.AppError {
	return apperrors.InvalidState(e.Op, e.State.String())
}

// RegistrationError is returned when the registry did not accept the
// registration, either with a non-204 status or a transport failure.
type RegistrationError struct {
	App        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eureka: register %s: %v", e.App, e.Err)
	}
	return fmt.Sprintf("eureka: register %s: unexpected status %d", e.App, e.StatusCode)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// AppError converts the error for API responses.
func (e *RegistrationError) AppError() *apperrors.AppError {
	return apperrors.RegistrationFailed(e.App, e.StatusCode).WithCause(e.Err)
}

// DeregistrationError is returned when the registry did not confirm the
// deregistration. The client is Deregistered regardless.
type DeregistrationError struct {
	App        string
	InstanceID string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeregistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eureka: deregister %s/%s: %v", e.App, e.InstanceID, e.Err)
	}
	return fmt.Sprintf("eureka: deregister %s/%s: unexpected status %d", e.App, e.InstanceID, e.StatusCode)
}

func (e *DeregistrationError) Unwrap() error { return e.Err }

// AppError converts the error for API responses.
func (e *DeregistrationError) AppError() *apperrors.AppError {
	return apperrors.DeregistrationFailed(e.App, e.InstanceID, e.StatusCode).WithCause(e.Err)
}

// InstanceLookupError is returned when neither the registry nor the fallback
// provider produced instances for a service.
type InstanceLookupError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *InstanceLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eureka: no instances for %s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("eureka: no instances for %s", e.Service)
}

func (e *InstanceLookupError) Unwrap() error { return e.Err }

// AppError converts the error for API responses.
func (e *InstanceLookupError) AppError() *apperrors.AppError {
	appErr := apperrors.InstanceLookupFailed(e.Service).WithCause(e.Err)
	if e.StatusCode > 0 {
		appErr.WithDetail("status_code", e.StatusCode)
	}
	return appErr
}

// heartbeatError describes a failed heartbeat for logs and stats.
type heartbeatError struct {
	StatusCode int
	Err        error
}

func (e *heartbeatError) Error() string {
	if e.Err != nil {
		return "heartbeat: " + e.Err.Error()
	}
	return fmt.Sprintf("heartbeat: unexpected status %d", e.StatusCode)
}

func (e *heartbeatError) Unwrap() error { return e.Err }
