package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Identifier and content errors
const (
	// ErrCodeInvalidName indicates a tool or participant name outside [A-Za-z0-9_-]{1,64}.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"
	// ErrCodeInvalidContentPart indicates a message or content part of an unknown variant.
	ErrCodeInvalidContentPart ErrorCode = "INVALID_CONTENT_PART"
	// ErrCodeInvalidToolArguments indicates tool-call arguments that are not a JSON object.
	ErrCodeInvalidToolArguments ErrorCode = "INVALID_TOOL_ARGUMENTS"
)

// Request policy errors
const (
	// ErrCodeConflictingFormat indicates more than one response-format directive was set.
	ErrCodeConflictingFormat ErrorCode = "CONFLICTING_FORMAT_DIRECTIVE"
	// ErrCodeInvalidResponseFormat indicates a response_format value that is not a schema.
	ErrCodeInvalidResponseFormat ErrorCode = "INVALID_RESPONSE_FORMAT"
	// ErrCodeUnsupportedCapability indicates the model lacks vision, JSON output or tool calling.
	ErrCodeUnsupportedCapability ErrorCode = "UNSUPPORTED_CAPABILITY"
	// ErrCodeNoToolsProvided indicates tool_choice=required with an empty tool list.
	ErrCodeNoToolsProvided ErrorCode = "NO_TOOLS_PROVIDED"
)

// Lookup and configuration errors
const (
	// ErrCodeUnknownModel indicates the capability registry has no entry for a model.
	ErrCodeUnknownModel ErrorCode = "UNKNOWN_MODEL"
	// ErrCodeInvalidInput indicates invalid configuration or input.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
