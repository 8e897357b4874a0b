package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
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

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Analysis flow errors ---

// ParseError creates a new AppError for an upload that is not a readable spreadsheet.
func ParseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeParse, Message: "The uploaded file is not a readable Excel spreadsheet.",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false, Cause: cause,
	}
}

// MissingInput creates a new AppError for required inputs that were not supplied.
func MissingInput(fields ...string) *AppError {
	return &AppError{
		Code:       ErrCodeMissingInput,
		Message:    "Please upload your dataset and provide your API key to begin the analysis.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"fields": fields},
	}
}

// StageFailure creates a new AppError for a pipeline stage whose completion call failed.
// Position is the 1-based position of the task in the pipeline.
func StageFailure(task, stage string, position int, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStageFailed,
		Message:    fmt.Sprintf("The analysis stopped at step %d (%s). Please try again.", position, task),
		HTTPStatus: http.StatusBadGateway, Retryable: false, Cause: cause,
		Details: map[string]any{"task": task, "stage": stage, "position": position},
	}
}

// --- Common Error Constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("No %s is available yet.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Conflict creates a new AppError for a conflict with the current state of the resource.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: true,
	}
}

// RateLimited creates a new AppError for a client that submitted too often.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many analyses requested. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// MissingFields returns the missing field names carried by a MISSING_INPUT error.
func (e *AppError) MissingFields() []string {
	if e.Code != ErrCodeMissingInput {
		return nil
	}
	fields, _ := e.Details["fields"].([]string)
	return fields
}

// Summary returns the message followed by the cause chain, for display to operators.
func (e *AppError) Summary() string {
	if e.Cause == nil {
		return e.Message
	}
	return strings.TrimSpace(e.Message + " " + e.Cause.Error())
}
