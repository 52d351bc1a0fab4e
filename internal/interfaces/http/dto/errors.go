package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown       = "ERR_UNKNOWN"
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeNotConfigured = "ERR_NOT_CONFIGURED"
)

// Validation error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidTenant   = "ERR_INVALID_TENANT"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Rendering error codes
const (
	ErrCodeInvalidPaperSize = "ERR_INVALID_PAPER_SIZE"
	ErrCodeInvalidHTML      = "ERR_INVALID_HTML"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeRenderTimeout    = "ERR_RENDER_TIMEOUT"
	ErrCodeStorageFailed    = "ERR_STORAGE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:       http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeNotConfigured: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidTenant:   http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeInvalidPaperSize: http.StatusBadRequest,
	ErrCodeInvalidHTML:      http.StatusUnprocessableEntity,
	ErrCodeRenderFailed:     http.StatusBadGateway,
	ErrCodeRenderTimeout:    http.StatusGatewayTimeout,
	ErrCodeStorageFailed:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and render error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_TENANT":        ErrCodeInvalidTenant,
	"INVALID_ARTIFACT_TYPE": ErrCodeInvalidInput,
	"INVALID_PAYLOAD":       ErrCodeInvalidInput,
	"INVALID_TITLE":         ErrCodeInvalidInput,
	"INVALID_MARGINS":       ErrCodeInvalidInput,
	"INVALID_PAPER_SIZE":    ErrCodeInvalidPaperSize,
	"INVALID_HTML":          ErrCodeInvalidHTML,
	"RENDER_FAILED":         ErrCodeRenderFailed,
	"RENDER_TIMEOUT":        ErrCodeRenderTimeout,
	"STORAGE_FAILED":        ErrCodeStorageFailed,
	"NOT_CONFIGURED":        ErrCodeNotConfigured,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
