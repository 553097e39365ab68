package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/chatkit/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": v.errors,
	}

	return appErr
}

// Err is Validate returned as a plain error, nil when valid.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.addError(field, "is required")
	}
	return v
}

// Min checks if a number meets minimum value.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.addError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// FloatRange checks an optional float. Nil values pass.
func (v *Validator) FloatRange(field string, value *float64, minVal, maxVal float64) *Validator {
	if value == nil {
		return v
	}
	if *value < minVal || *value > maxVal {
		v.addError(field, fmt.Sprintf("must be between %g and %g", minVal, maxVal))
	}
	return v
}

// FloatMin checks an optional float against a lower bound only. Nil values pass.
func (v *Validator) FloatMin(field string, value *float64, minVal float64) *Validator {
	if value != nil && *value < minVal {
		v.addError(field, fmt.Sprintf("must be at least %g", minVal))
	}
	return v
}

// IntMin checks an optional int. Nil values pass.
func (v *Validator) IntMin(field string, value *int, minVal int) *Validator {
	if value == nil {
		return v
	}
	return v.Min(field, *value, minVal)
}

// OneOf checks if a value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.addError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.addError(field, message)
	}
	return v
}
