package dto

import "net/http"

// Error codes returned in ErrorInfo.Code.
// Domain errors keep their own code; the constants below cover transport failures
// and the codes that need a non-500 status.

// General error codes
const (
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Request error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeInvalidStep  = "INVALID_STEP"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInvalidState  = "INVALID_STATE"
)

// Domain error codes
const (
	ErrCodeUpstream                  = "UPSTREAM_ERROR"
	ErrCodeSalesforceAccountMismatch = "SALESFORCE_ACCOUNT_MISMATCH"
	ErrCodeSalesforceAccountRequired = "SALESFORCE_ACCOUNT_REQUIRED"
	ErrCodeAwardTypeAlreadySet       = "AWARD_TYPE_ALREADY_SET"
	ErrCodeAwardTypeUndetermined     = "AWARD_TYPE_UNDETERMINED"
	ErrCodeAlreadySubmitted          = "ALREADY_SUBMITTED"
	ErrCodeInvalidEmail              = "INVALID_EMAIL"
	ErrCodeUnsupportedFileType       = "UNSUPPORTED_FILE_TYPE"
	ErrCodeFileTooLarge              = "FILE_TOO_LARGE"
	ErrCodeRequestEntityTooLarge     = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidStep:  http.StatusBadRequest,
	ErrCodeInvalidEmail: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:                  http.StatusNotFound,
	ErrCodeAlreadyExists:             http.StatusConflict,
	ErrCodeConflict:                  http.StatusConflict,
	ErrCodeSalesforceAccountMismatch: http.StatusConflict,
	ErrCodeAwardTypeAlreadySet:       http.StatusConflict,
	ErrCodeAlreadySubmitted:          http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeSalesforceAccountRequired: http.StatusUnprocessableEntity,
	ErrCodeAwardTypeUndetermined:     http.StatusUnprocessableEntity,

	// Upload errors
	ErrCodeUnsupportedFileType:   http.StatusUnsupportedMediaType,
	ErrCodeFileTooLarge:          http.StatusRequestEntityTooLarge,
	ErrCodeRequestEntityTooLarge: http.StatusRequestEntityTooLarge,

	// The CRM failed after retries
	ErrCodeUpstream: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
