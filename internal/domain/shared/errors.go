package shared

import "errors"

// ErrorCategory groups domain errors by who can correct them
type ErrorCategory string

const (
	// CategoryValidation is a user-correctable error (bad input or state)
	CategoryValidation ErrorCategory = "VALIDATION"
	// CategoryConfiguration is an admin-correctable error (missing master data)
	CategoryConfiguration ErrorCategory = "CONFIGURATION"
	// CategoryConsistency signals a broken internal invariant
	CategoryConsistency ErrorCategory = "CONSISTENCY"
	// CategoryInfrastructure is a transient storage or transport failure
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Category ErrorCategory `json:"category"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Category: e.Category}
}

// NewDomainError creates a new validation domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Message:  message,
		Category: CategoryValidation,
	}
}

// NewConfigurationError creates a domain error an administrator must fix
func NewConfigurationError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Category: CategoryConfiguration}
}

// NewConsistencyError creates a domain error for a violated invariant
func NewConsistencyError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Category: CategoryConsistency}
}

// CategoryOf returns the category of err. Errors that are not domain errors
// are treated as infrastructure failures.
func CategoryOf(err error) ErrorCategory {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Category == "" {
			return CategoryValidation
		}
		return de.Category
	}
	return CategoryInfrastructure
}

// IsRetryable reports whether err may succeed if the operation is repeated
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConcurrencyConflict) {
		return true
	}
	return CategoryOf(err) == CategoryInfrastructure
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
