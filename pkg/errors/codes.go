package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_007"
)

// Upstream data-source error codes.  These map one-to-one onto the
// distinguishable fetch failures: transport error, non-2xx status, malformed
// JSON, and a response that parses but lacks the expected "companies" key.
const (
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeSourceBadStatus   ErrorCode = "SRC_002"
	ErrCodeSourceDecode      ErrorCode = "SRC_003"
	ErrCodeSourceMissingKey  ErrorCode = "SRC_004"
)

// Catalog error codes.
const (
	ErrCodeCompanyNotFound ErrorCode = "CAT_001"
	ErrCodeCatalogEmpty    ErrorCode = "CAT_002"
	ErrCodeRecordRejected  ErrorCode = "CAT_003"
	ErrCodeMilestoneParse  ErrorCode = "CAT_004"
)

// Aliases used by the convenience factories.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeSourceUnavailable: http.StatusBadGateway,
	ErrCodeSourceBadStatus:   http.StatusBadGateway,
	ErrCodeSourceDecode:      http.StatusBadGateway,
	ErrCodeSourceMissingKey:  http.StatusBadGateway,

	ErrCodeCompanyNotFound: http.StatusNotFound,
	ErrCodeCatalogEmpty:    http.StatusServiceUnavailable,
	ErrCodeRecordRejected:  http.StatusUnprocessableEntity,
	ErrCodeMilestoneParse:  http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeServiceUnavailable: "service unavailable",

	ErrCodeSourceUnavailable: "data source unavailable",
	ErrCodeSourceBadStatus:   "data source returned an error status",
	ErrCodeSourceDecode:      "failed to parse data source response",
	ErrCodeSourceMissingKey:  "expected key missing from data source response",

	ErrCodeCompanyNotFound: "company not found",
	ErrCodeCatalogEmpty:    "catalog contains no valid records",
	ErrCodeRecordRejected:  "record rejected during normalization",
	ErrCodeMilestoneParse:  "failed to parse milestone list",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
