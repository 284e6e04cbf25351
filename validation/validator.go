package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/eurekakit/errors"
)

// FieldError is one failed check, keyed by the configuration path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates FieldErrors across chained checks so that a
// configuration reports every problem at once.
//
//	err := validation.New().
//		AbsoluteURL("default_url", cfg.DefaultURL).
//		PositiveDuration("heartbeat_interval", cfg.HeartbeatInterval).
//		Err()
type Validator struct {
	fields []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, format string, args ...any) *Validator {
	v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.fields) > 0 }

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError { return v.fields }

// Validate folds the failed checks into one INVALID_INPUT AppError carrying
// them under the "fields" detail, or returns nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	parts := make([]string, len(v.fields))
	for i, f := range v.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.fields)
}

// Err is Validate as a plain error; nil when every check passed.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// AbsoluteURL requires an http(s) URL with a host. Empty values pass; pair
// with a required struct tag.
func (v *Validator) AbsoluteURL(field, value string) *Validator {
	if value == "" {
		return v
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return v.fail(field, "must be an absolute http(s) URL")
	}
	return v
}

// Range requires minVal <= value <= maxVal.
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	if value < minVal || value > maxVal {
		return v.fail(field, "must be between %d and %d", minVal, maxVal)
	}
	return v
}

// PositiveDuration requires value > 0.
func (v *Validator) PositiveDuration(field string, value time.Duration) *Validator {
	if value <= 0 {
		return v.fail(field, "must be positive")
	}
	return v
}

// OneOf requires value to be in allowed. Empty values pass.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Custom records message for field when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		return v.fail(field, "%s", message)
	}
	return v
}
