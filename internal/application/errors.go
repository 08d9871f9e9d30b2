package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeAuth               = "AUTH_ERROR"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeServerRejected     = "SERVER_REJECTED"
	ErrCodeIdentityResolution = "IDENTITY_RESOLUTION_ERROR"
	ErrCodeCancelRejected     = "CANCEL_REJECTED"
	ErrCodeUnconfirmed        = "UNCONFIRMED"
	ErrCodeExhausted          = "EXHAUSTED"
	ErrCodeConsentDeclined    = "CONSENT_DECLINED"
	ErrCodeRequestInFlight    = "REQUEST_IN_FLIGHT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

func NewValidationError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeValidation,
		Message:    "Invalid request",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewAuthError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAuth,
		Message:    "Credential expired or missing",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

func NewNetworkError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNetwork,
		Message:    "Could not reach the server; the outcome is unknown",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewServerRejectedError carries the server-supplied business message verbatim.
func NewServerRejectedError(message string, err error) *ServiceError {
	if message == "" {
		message = "Rejected by the server"
	}
	return &ServiceError{
		Code:       ErrCodeServerRejected,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

func NewIdentityResolutionError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeIdentityResolution,
		Message:    "Could not resolve the identity token",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewCancelRejectedError(message string) *ServiceError {
	if message == "" {
		message = "The request can no longer be cancelled"
	}
	return &ServiceError{
		Code:       ErrCodeCancelRejected,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func NewUnconfirmedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUnconfirmed,
		Message:    "Cancellation could not be confirmed; check your history later",
		HTTPStatus: http.StatusAccepted,
		Err:        err,
	}
}

func NewExhaustedError(attempts int) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeExhausted,
		Message:    fmt.Sprintf("Outcome not known after %d status checks; check your history later", attempts),
		HTTPStatus: http.StatusAccepted,
	}
}

func NewConsentDeclinedError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeConsentDeclined,
		Message:    "Confirmation was declined",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func NewRequestInFlightError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeRequestInFlight,
		Message:    "Another request for this resource is still in progress",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewInvalidStateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidState,
		Message:    "Invalid state",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewNotFoundError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotFound,
		Message:    "Not found",
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// BackendError is a non-success answer from the remote API.
// StatusCode is the HTTP status; Code is the business code from the envelope.
type BackendError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error [%d]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// IsBusinessRejection reports a well-formed envelope that said no.
func (e *BackendError) IsBusinessRejection() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

func IsBackendError(err error) (*BackendError, bool) {
	var backendErr *BackendError
	ok := errors.As(err, &backendErr)
	return backendErr, ok
}
