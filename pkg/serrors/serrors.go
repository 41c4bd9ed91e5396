package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Base is a machine-readable error carrying a stable code alongside the
// human-readable message. Codes are what callers switch on; messages are
// free to change.
type Base struct {
	Code    string
	Message string
	Details string
}

func (e *Base) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func NewError(code, message, details string) *Base {
	return &Base{Code: code, Message: message, Details: details}
}

// ValidationErrors maps a field name to its validation failure message.
type ValidationErrors map[string]string

// FromValidatorErrors flattens go-playground validation errors into a
// ValidationErrors map keyed by struct field name.
func FromValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return out
}
