package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// ErrorCategory represents the nature of an error for logging and metrics
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrRequestInFlight) {
		return CategoryBusinessRule
	}

	if errors.Is(err, domain.ErrRequestNotFound) ||
		errors.Is(err, domain.ErrMissingRequiredField) {
		return CategoryClientError
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeValidation, ErrCodeNotFound, ErrCodeRequestInFlight:
			return CategoryClientError
		case ErrCodeServerRejected, ErrCodeConsentDeclined, ErrCodeCancelRejected:
			return CategoryBusinessRule
		case ErrCodeAuth:
			return CategoryPermanent
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeNetwork, ErrCodeUnconfirmed, ErrCodeExhausted, ErrCodeIdentityResolution:
			return CategoryTransient
		}
	}

	if backendErr, ok := IsBackendError(err); ok {
		switch {
		case backendErr.IsBusinessRejection():
			return CategoryBusinessRule
		case backendErr.StatusCode >= 500:
			return CategoryTransient
		case isAuthStatus(backendErr.StatusCode):
			return CategoryPermanent
		default:
			return CategoryClientError
		}
	}

	return CategoryTransient
}

// CategorizeInitiationError maps a failed create call onto the error taxonomy.
// A transport failure or 5xx leaves the server-side effect unknown, so it
// is reported as a network error rather than a rejection.
func CategorizeInitiationError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr
	}

	if errors.Is(err, domain.ErrInvalidAmount) || errors.Is(err, domain.ErrMissingRequiredField) {
		return NewValidationError(err)
	}

	if backendErr, ok := IsBackendError(err); ok {
		switch {
		case isAuthStatus(backendErr.StatusCode):
			return NewAuthError(err)
		case backendErr.StatusCode >= 500:
			return NewNetworkError(err)
		default:
			return NewServerRejectedError(backendErr.Message, err)
		}
	}

	return NewNetworkError(err)
}

// IsDefiniteCancelRejection reports whether a failed cancel call proves the
// server refused to cancel, as opposed to leaving the outcome unknown.
func IsDefiniteCancelRejection(err error) bool {
	backendErr, ok := IsBackendError(err)
	if !ok {
		return false
	}
	if backendErr.IsBusinessRejection() {
		return true
	}
	switch {
	case isAuthStatus(backendErr.StatusCode),
		backendErr.StatusCode == http.StatusRequestTimeout,
		backendErr.StatusCode == http.StatusTooManyRequests,
		backendErr.StatusCode >= 500:
		return false
	}
	return backendErr.StatusCode >= 400
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if _, ok := IsBackendError(err); ok {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if _, ok := IsBackendError(err); ok {
		return ErrCodeServerRejected
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return ErrCodeInternal
}
