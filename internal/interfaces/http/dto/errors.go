package dto

import (
	"net/http"

	"github.com/oms/backend/internal/domain/shared"
)

// Error code constants exposed at the API boundary
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when supplied data violates a domain invariant
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeCreationFailed is used when an atomic multi-step write was rolled back
	ErrCodeCreationFailed = "ERR_CREATION_FAILED"
	// ErrCodeIntegrity is used for internal consistency failures
	ErrCodeIntegrity = "ERR_INTEGRITY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeCreationFailed: http.StatusInternalServerError,
	ErrCodeIntegrity:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	shared.CodeValidation: ErrCodeValidation,
	shared.CodeNotFound:   ErrCodeNotFound,
	shared.CodeIntegrity:  ErrCodeIntegrity,
	"INVALID_STATE":       ErrCodeInvalidState,
	"ALREADY_EXISTS":      ErrCodeBadRequest,
}

// NormalizeErrorCode converts a domain error code to an API error code
func NormalizeErrorCode(domainCode string) string {
	if code, ok := domainCodeMapping[domainCode]; ok {
		return code
	}
	return ErrCodeInternal
}
