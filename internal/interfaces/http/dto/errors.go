package dto

import (
	"errors"
	"net/http"

	"github.com/erp/settlement/internal/domain/shared"
)

// Transport error codes. Domain errors keep their own code (for example
// ALREADY_SETTLED) in the response; these cover failures that never reach
// the domain.
const (
	ErrCodeInternal       = "ERR_INTERNAL"
	ErrCodeUnavailable    = "ERR_UNAVAILABLE"
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeInvalidJSON    = "ERR_INVALID_JSON"
	ErrCodeInvalidID      = "ERR_INVALID_ID"
	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeForbidden      = "ERR_FORBIDDEN"
	ErrCodeTokenExpired   = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid   = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked   = "ERR_TOKEN_REVOKED"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeEntityTooLarge = "ERR_ENTITY_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps transport and domain error codes to HTTP statuses.
// Codes absent here fall back to their error category.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeInvalidJSON:    http.StatusBadRequest,
	ErrCodeInvalidID:      http.StatusBadRequest,
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:   http.StatusUnauthorized,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeEntityTooLarge: http.StatusRequestEntityTooLarge,

	"NOT_FOUND":              http.StatusNotFound,
	"ORDER_NOT_FOUND":        http.StatusNotFound,
	"ALREADY_SETTLED":        http.StatusConflict,
	"ALREADY_POSTED":         http.StatusConflict,
	"ALREADY_EXISTS":         http.StatusConflict,
	"TABLE_OCCUPIED":         http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"INVALID_PAYMENT_METHOD": http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT":   http.StatusUnprocessableEntity,
	"INVALID_DISCOUNT":       http.StatusUnprocessableEntity,
	"EMPTY_ORDER":            http.StatusUnprocessableEntity,
	"ORDER_NOT_PAID":         http.StatusUnprocessableEntity,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"UNAUTHORIZED":           http.StatusForbidden,
}

var categoryHTTPStatus = map[shared.ErrorCategory]int{
	shared.CategoryValidation:     http.StatusBadRequest,
	shared.CategoryConfiguration:  http.StatusUnprocessableEntity,
	shared.CategoryConsistency:    http.StatusInternalServerError,
	shared.CategoryInfrastructure: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status for a code, or 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorFromDomain translates an application error into an HTTP status and
// the error body. Non-domain errors are infrastructure failures: their
// detail is not exposed and the client may retry.
func ErrorFromDomain(err error) (int, ErrorInfo) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusServiceUnavailable, ErrorInfo{
			Code:      ErrCodeUnavailable,
			Message:   "The service is temporarily unable to complete the request",
			Retryable: true,
		}
	}

	status, ok := ErrorCodeHTTPStatus[de.Code]
	if !ok {
		status = categoryHTTPStatus[shared.CategoryOf(de)]
	}
	info := ErrorInfo{
		Code:      de.Code,
		Message:   de.Message,
		Category:  string(shared.CategoryOf(de)),
		Retryable: shared.IsRetryable(de),
	}
	if shared.CategoryOf(de) == shared.CategoryConsistency {
		info.Message = "Internal consistency error"
	}
	return status, info
}
