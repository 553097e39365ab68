package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// --- Constructors ---

// InvalidName creates a new AppError for a name that fails validation.
func InvalidName(name, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidName,
		Message: fmt.Sprintf("Invalid name: %q. %s", name, reason),
		Details: map[string]any{"name": name},
	}
}

// InvalidContentPart creates a new AppError for a content part of an unsupported kind.
func InvalidContentPart(kind string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidContentPart,
		Message: fmt.Sprintf("Unknown content part type: %s", kind),
		Details: map[string]any{"type": kind},
	}
}

// InvalidToolArguments creates a new AppError for tool-call arguments that do not decode.
func InvalidToolArguments(tool string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidToolArguments,
		Message: fmt.Sprintf("Arguments of tool call %q must be a JSON object", tool),
		Details: map[string]any{"tool": tool},
		Cause:   cause,
	}
}

// ConflictingFormat creates a new AppError for two response-format directives set at once.
func ConflictingFormat(first, second string) *AppError {
	return &AppError{
		Code:    ErrCodeConflictingFormat,
		Message: fmt.Sprintf("%s and %s cannot be set at the same time", first, second),
		Details: map[string]any{"directives": []string{first, second}},
	}
}

// InvalidResponseFormat creates a new AppError for a response_format value that is not a schema.
func InvalidResponseFormat(got any) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidResponseFormat,
		Message: fmt.Sprintf("response_format must be a JSON schema, got %T", got),
	}
}

// UnsupportedCapability creates a new AppError for a request the model cannot serve.
func UnsupportedCapability(model, capability string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedCapability,
		Message: fmt.Sprintf("Model %s does not support %s", model, capability),
		Details: map[string]any{"model": model, "capability": capability},
	}
}

// NoToolsProvided creates a new AppError for tool_choice=required without tools.
func NoToolsProvided() *AppError {
	return &AppError{
		Code:    ErrCodeNoToolsProvided,
		Message: "tool_choice 'required' specified but no tools provided",
	}
}

// UnknownModel creates a new AppError for a model missing from the capability registry.
func UnknownModel(model string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownModel,
		Message: fmt.Sprintf("Model %s is not in the capability registry; supply model info explicitly", model),
		Details: map[string]any{"model": model},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an INVALID_INPUT AppError carrying a pre-formatted message.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred.",
		Cause:   cause,
	}
}

