package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrRequestInFlight      = errors.New("request already in flight")
	ErrRequestNotFound      = errors.New("pending request not found")
	ErrRequestClosed        = errors.New("pending request already closed")
	ErrAttemptLimit         = errors.New("poll attempt limit reached")
)

// Domain validation errors
const (
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInvalidKind          = "INVALID_KIND"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeAmountExceedsCeiling = "AMOUNT_EXCEEDS_CEILING"
	ErrCodeAmountBelowMinimum   = "AMOUNT_BELOW_MINIMUM"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeRequestInFlight      = "REQUEST_IN_FLIGHT"
	ErrCodeRequestNotFound      = "REQUEST_NOT_FOUND"
	ErrCodeRequestClosed        = "REQUEST_CLOSED"
	ErrCodeAttemptLimit         = "ATTEMPT_LIMIT"
	ErrCodeAttemptOrder         = "ATTEMPT_ORDER"
	ErrCodeAlreadySettled       = "ALREADY_SETTLED"
	ErrCodeInvalidSettlement    = "INVALID_SETTLEMENT"
)

func NewInvalidTransitionError(from, to RequestStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewInvalidStateError(current, expected RequestStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("invalid state: request is %s, expected %s", current, expected),
		Err:     ErrInvalidState,
	}
}

func NewInvalidKindError(kind string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidKind,
		Message: fmt.Sprintf("unknown request kind %q", kind),
		Err:     ErrMissingRequiredField,
	}
}

func NewInvalidAmountError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount: %s", reason),
		Err:     ErrInvalidAmount,
	}
}

func NewAmountExceedsCeilingError(amount, ceiling string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountExceedsCeiling,
		Message: fmt.Sprintf("amount %s exceeds the available %s", amount, ceiling),
		Err:     ErrInvalidAmount,
	}
}

func NewAmountBelowMinimumError(amount, minimum string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountBelowMinimum,
		Message: fmt.Sprintf("amount %s is below the minimum %s", amount, minimum),
		Err:     ErrInvalidAmount,
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
		Err:     ErrMissingRequiredField,
	}
}

func NewRequestInFlightError(kind Kind, resourceID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeRequestInFlight,
		Message: fmt.Sprintf("a %s request for %s is already in flight", kind, resourceID),
		Err:     ErrRequestInFlight,
	}
}

func NewRequestNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeRequestNotFound,
		Message: fmt.Sprintf("pending request %s not found", id),
		Err:     ErrRequestNotFound,
	}
}

// NewRequestClosedError reports a write that would replace a stored terminal status.
func NewRequestClosedError(id string, stored RequestStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeRequestClosed,
		Message: fmt.Sprintf("pending request %s is already %s", id, stored),
		Err:     ErrRequestClosed,
	}
}

func NewAttemptLimitError(max int) *DomainError {
	return &DomainError{
		Code:    ErrCodeAttemptLimit,
		Message: fmt.Sprintf("poll attempt limit of %d reached", max),
		Err:     ErrAttemptLimit,
	}
}

func NewAttemptOrderError(expected, got int) *DomainError {
	return &DomainError{
		Code:    ErrCodeAttemptOrder,
		Message: fmt.Sprintf("expected poll attempt %d, got %d", expected, got),
		Err:     ErrInvalidState,
	}
}

func NewAlreadySettledError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadySettled,
		Message: fmt.Sprintf("request %s already has a settlement", id),
		Err:     ErrInvalidState,
	}
}

func NewInvalidSettlementError(s SettlementStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidSettlement,
		Message: fmt.Sprintf("settlement %s is not terminal", s),
		Err:     ErrInvalidState,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
