package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeInitiationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"amount validation", domain.NewAmountExceedsCeilingError("100.00", "50.00"), application.ErrCodeValidation},
		{"unauthorized", &application.BackendError{StatusCode: http.StatusUnauthorized}, application.ErrCodeAuth},
		{"forbidden", &application.BackendError{StatusCode: http.StatusForbidden}, application.ErrCodeAuth},
		{"business envelope", &application.BackendError{StatusCode: http.StatusOK, Code: 4001, Message: "order closed"}, application.ErrCodeServerRejected},
		{"bad request", &application.BackendError{StatusCode: http.StatusBadRequest, Message: "bad"}, application.ErrCodeServerRejected},
		{"server error", &application.BackendError{StatusCode: http.StatusBadGateway}, application.ErrCodeNetwork},
		{"wrapped transport", fmt.Errorf("initiate: %w", context.DeadlineExceeded), application.ErrCodeNetwork},
		{"already categorized", application.NewIdentityResolutionError(errors.New("x")), application.ErrCodeIdentityResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := application.CategorizeInitiationError(tt.err)
			assert.Equal(t, tt.code, got.Code)
		})
	}

	assert.Nil(t, application.CategorizeInitiationError(nil))
}

func TestCategorizeInitiationError_KeepsServerMessage(t *testing.T) {
	err := &application.BackendError{StatusCode: http.StatusOK, Code: 4001, Message: "余额不足"}

	got := application.CategorizeInitiationError(err)

	assert.Equal(t, "余额不足", got.Message)
	assert.ErrorIs(t, got, err)
}

func TestIsDefiniteCancelRejection(t *testing.T) {
	assert.True(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 200, Code: 1}))
	assert.True(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 409}))
	assert.True(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 404}))
	assert.False(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 401}))
	assert.False(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 408}))
	assert.False(t, application.IsDefiniteCancelRejection(&application.BackendError{StatusCode: 503}))
	assert.False(t, application.IsDefiniteCancelRejection(errors.New("reset")))
}

func TestToHTTPStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"service error", application.NewRequestInFlightError(nil), http.StatusConflict, application.ErrCodeRequestInFlight},
		{"domain not found", domain.NewRequestNotFoundError("x"), http.StatusNotFound, domain.ErrCodeRequestNotFound},
		{"domain amount", domain.NewInvalidAmountError("neg"), http.StatusBadRequest, domain.ErrCodeInvalidAmount},
		{"backend", &application.BackendError{StatusCode: 500}, http.StatusBadGateway, application.ErrCodeServerRejected},
		{"unknown", errors.New("x"), http.StatusInternalServerError, application.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, application.ToHTTPStatus(tt.err))
			assert.Equal(t, tt.code, application.ToErrorCode(tt.err))
		})
	}
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, application.CategoryTransient, application.CategorizeError(context.Canceled))
	assert.Equal(t, application.CategoryBusinessRule, application.CategorizeError(domain.NewInvalidTransitionError(domain.StatusFailed, domain.StatusPolling)))
	assert.Equal(t, application.CategoryClientError, application.CategorizeError(domain.NewRequestNotFoundError("x")))
	assert.Equal(t, application.CategoryTransient, application.CategorizeError(&application.BackendError{StatusCode: 503}))
	assert.Equal(t, application.CategoryBusinessRule, application.CategorizeError(&application.BackendError{StatusCode: 200}))
	assert.Equal(t, application.ErrorCategory(""), application.CategorizeError(nil))
}
