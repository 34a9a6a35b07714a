package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Error codes used across the domain
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeIntegrity  = "INTEGRITY_ERROR"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for caller-supplied data that violates an invariant.
// Validation failures are detected before any write and are never retried automatically.
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError creates an error for a referenced aggregate that does not exist
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewIntegrityError creates an error for an internal consistency failure.
// Integrity errors are fatal for the request and must be logged, never masked.
func NewIntegrityError(message string) *DomainError {
	return NewDomainError(CodeIntegrity, message)
}

// Common domain errors
var (
	ErrNotFound      = NewNotFoundError("resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "resource already exists")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "operation not allowed in current state")
)

// IsValidation reports whether err is (or wraps) a validation error
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is (or wraps) a not-found error
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsIntegrity reports whether err is (or wraps) an integrity error
func IsIntegrity(err error) bool {
	return hasCode(err, CodeIntegrity)
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CreationError wraps any failure that occurs inside an atomic multi-step write.
// Step names the pipeline stage that failed so operators can diagnose without
// replaying the transaction. The whole unit of work is rolled back before this
// error is surfaced; no partial state is ever left behind.
type CreationError struct {
	Doc  string // document being created: "order" or "credit note"
	Step string // pipeline stage: "header", "items", "addresses", "commit"
	Err  error
}

// Error implements the error interface
func (e *CreationError) Error() string {
	return fmt.Sprintf("%s creation failed at %s: %v", e.Doc, e.Step, e.Err)
}

// Unwrap returns the causal error
func (e *CreationError) Unwrap() error {
	return e.Err
}

// NewOrderCreationError wraps a failure inside the order creation transaction
func NewOrderCreationError(step string, err error) *CreationError {
	return &CreationError{Doc: "order", Step: step, Err: err}
}

// NewCreditNoteCreationError wraps a failure inside the credit note creation transaction
func NewCreditNoteCreationError(step string, err error) *CreationError {
	return &CreationError{Doc: "credit note", Step: step, Err: err}
}

// IsCreationError reports whether err is (or wraps) a CreationError
func IsCreationError(err error) bool {
	var ce *CreationError
	return errors.As(err, &ce)
}
