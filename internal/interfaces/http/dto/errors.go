package dto

import "net/http"

// Stable API error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidState  = "INVALID_STATE"
	ErrCodeUnavailable   = "UNAVAILABLE"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"

	ErrCodeInvalidIssueKey     = "INVALID_ISSUE_KEY"
	ErrCodeInvalidEnvironment  = "INVALID_ENVIRONMENT"
	ErrCodeInvalidSearchTerm   = "INVALID_SEARCH_TERM"
	ErrCodeInvalidSearchColumn = "INVALID_SEARCH_COLUMN"
	ErrCodeImportEmptyFile     = "IMPORT_EMPTY_FILE"
	ErrCodeImportBadEncoding   = "IMPORT_INVALID_ENCODING"
	ErrCodeImportMissingHeader = "IMPORT_MISSING_HEADER"
	ErrCodeImportMissingColumn = "IMPORT_MISSING_COLUMN"
)

// errorCodeHTTPStatus maps API error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidState:  http.StatusConflict,
	ErrCodeUnavailable:   http.StatusServiceUnavailable,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeInternal:      http.StatusInternalServerError,

	ErrCodeInvalidIssueKey:     http.StatusBadRequest,
	ErrCodeInvalidEnvironment:  http.StatusBadRequest,
	ErrCodeInvalidSearchTerm:   http.StatusBadRequest,
	ErrCodeInvalidSearchColumn: http.StatusBadRequest,
	ErrCodeImportEmptyFile:     http.StatusBadRequest,
	ErrCodeImportBadEncoding:   http.StatusBadRequest,
	ErrCodeImportMissingHeader: http.StatusBadRequest,
	ErrCodeImportMissingColumn: http.StatusBadRequest,
}

// GetHTTPStatus resolves an error code to its HTTP status, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// legacyErrorCodeMapping translates the public portal error codes
// that older clients still send and expect
var legacyErrorCodeMapping = map[string]string{
	"ORD-1001": ErrCodeNotFound,     // order/defect not found
	"PAY-2001": ErrCodeUnavailable,  // upstream payment domain failure
	"API-3003": ErrCodeInvalidInput, // malformed API request
}

// NormalizeErrorCode maps a legacy public code to its current
// equivalent; current codes pass through unchanged
func NormalizeErrorCode(code string) string {
	if mapped, ok := legacyErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
