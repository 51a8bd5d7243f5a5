// Package apierror defines the JSON error body returned by the HTTP API.
package apierror

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a structured API error response.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying extra detail.
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNoComps          = "NO_COMPARABLE_LISTINGS"
	CodeUnknownPreset    = "UNKNOWN_PRESET"
	CodeNotFound         = "NOT_FOUND"
	CodeBatchTooLarge    = "BATCH_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeTimeout          = "TIMEOUT"
	CodeBadSourceData    = "INVALID_SOURCE_DATA"
	CodeNoSource         = "SOURCE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// InvalidRequest reports a body that could not be decoded.
func InvalidRequest(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// Validation reports one or more invalid fields.
func Validation(fields []FieldError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", fields)
}

// NoComps reports that no sold listings were available.
func NoComps(query string) *APIError {
	msg := "No comparable sold listings"
	if query != "" {
		msg = fmt.Sprintf("No comparable sold listings for %q", query)
	}
	return New(http.StatusUnprocessableEntity, CodeNoComps, msg)
}

// UnknownPreset reports a preset name that is not configured.
func UnknownPreset(name string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnknownPreset, fmt.Sprintf("Unknown preset %q", name), name)
}

// NotFound reports a missing resource.
func NotFound(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// BatchTooLarge reports a batch over the configured limit.
func BatchTooLarge(limit int) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodeBatchTooLarge,
		fmt.Sprintf("Batch exceeds %d items", limit), limit)
}

// RateLimited reports a throttled client.
func RateLimited() *APIError {
	return New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")
}

// Timeout reports an expired request deadline.
func Timeout() *APIError {
	return New(http.StatusGatewayTimeout, CodeTimeout, "Request timed out")
}

// BadSourceData reports comps that failed validation after collection.
func BadSourceData(err error) *APIError {
	return NewWithDetails(http.StatusBadGateway, CodeBadSourceData, "Comps source returned invalid prices", err.Error())
}

// NoSource reports that no comps source is configured for query lookups.
func NoSource() *APIError {
	return New(http.StatusServiceUnavailable, CodeNoSource, "No comps source configured")
}

// Internal reports an unexpected failure without leaking its cause.
func Internal() *APIError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error")
}
