package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection errors (retryable)
const (
	// ErrCodeConnectionFailed indicates the stream could not be opened or was dropped.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeServiceUnavailable indicates the endpoint is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Protocol errors
const (
	// ErrCodeUnexpectedResponse indicates the endpoint answered with a non-success status.
	ErrCodeUnexpectedResponse ErrorCode = "UNEXPECTED_RESPONSE"
	// ErrCodeDecodeFailed indicates a message payload could not be decoded.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrCodeInternal indicates an unexpected internal failure.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeServiceUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
