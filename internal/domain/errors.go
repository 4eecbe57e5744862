package domain

import (
	"errors"
	"fmt"
	"time"
)

// FormatError is the only fatal error class the engine produces: the
// uploaded content is unusable as VCF at all. Every other condition
// (malformed lines, unmatched variants, uncallable genotypes, ambiguous
// diplotypes, unmapped risk triples) is recovered and counted in
// QualityMetrics instead.
type FormatError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vcf format error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("vcf format error: %s", e.Reason)
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError wrapping a sentinel cause.
func NewFormatError(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}

// Sentinel causes for FormatError.
var (
	ErrNoData        = errors.New("no parsable content")
	ErrMissingHeader = errors.New("mandatory #CHROM header line absent")
)

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// APIError is the standardized error payload returned by the HTTP layer.
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for the HTTP layer.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeFormat         = "VCF_FORMAT_ERROR"
	ErrCodePayloadTooBig  = "PAYLOAD_TOO_LARGE"
	ErrCodeStorage        = "STORAGE_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
	ErrCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
)

// NewAPIError creates a new APIError with timestamp.
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// ValidationError represents a single invalid input field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}
