package domain_test

import (
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newRequest(t *testing.T, kind domain.Kind) *domain.PendingRequest {
	t.Helper()
	money, err := domain.ParseMoney("25.00", domain.DefaultCurrency)
	require.NoError(t, err)

	req, err := domain.NewPendingRequest("req-1", kind, "order-42", money, now)
	require.NoError(t, err)
	return req
}

func TestNewPendingRequest(t *testing.T) {
	t.Run("creates request in REQUESTING", func(t *testing.T) {
		req := newRequest(t, domain.KindPayment)

		assert.Equal(t, domain.StatusRequesting, req.Status)
		assert.Equal(t, "order-42", req.ResourceID)
		assert.Empty(t, req.RequestID)
		assert.Equal(t, now, req.CreatedAt)
		assert.True(t, req.Status.IsActive())
	})

	t.Run("rejects empty resource", func(t *testing.T) {
		money, _ := domain.ParseMoney("1.00", domain.DefaultCurrency)

		_, err := domain.NewPendingRequest("req-1", domain.KindWithdrawal, " ", money, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
		assert.Contains(t, err.Error(), "resource ID is required")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		money, _ := domain.ParseMoney("1.00", domain.DefaultCurrency)

		_, err := domain.NewPendingRequest("req-1", domain.Kind("REFUND"), "wallet", money, now)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidKind))
	})
}

func TestParseKind(t *testing.T) {
	k, err := domain.ParseKind("withdrawal")
	require.NoError(t, err)
	assert.Equal(t, domain.KindWithdrawal, k)

	_, err = domain.ParseKind("transfer")
	assert.Error(t, err)
}

func TestPendingRequest_HappyPath(t *testing.T) {
	req := newRequest(t, domain.KindPayment)

	require.NoError(t, req.MarkInitiated("pay-001", []byte(`{"package":"p"}`), true, now))
	assert.Equal(t, domain.StatusAwaitingConsent, req.Status)
	assert.Equal(t, "pay-001", req.RequestID)

	require.NoError(t, req.MarkPolling(3, now))
	require.NoError(t, req.RecordAttempt(domain.PollAttempt{AttemptNumber: 1, ObservedStatus: "pending"}))
	require.NoError(t, req.Resolve(domain.SettlementSuccess, "", now))

	assert.Equal(t, domain.StatusSuccess, req.Status)
	assert.True(t, req.IsTerminal())
	require.NotNil(t, req.CompletedAt)
}

func TestPendingRequest_NoConsentGoesStraightToPolling(t *testing.T) {
	req := newRequest(t, domain.KindWithdrawal)

	require.NoError(t, req.MarkInitiated("batch-1", nil, false, now))

	assert.Equal(t, domain.StatusPolling, req.Status)
}

func TestPendingRequest_CancelRejectedFallsThroughToPolling(t *testing.T) {
	req := newRequest(t, domain.KindWithdrawal)
	require.NoError(t, req.MarkInitiated("batch-1", []byte("{}"), true, now))
	require.NoError(t, req.MarkCancelling(now))

	require.NoError(t, req.MarkPolling(10, now))

	assert.Equal(t, domain.StatusPolling, req.Status)
	assert.Equal(t, 10, req.MaxAttempts)
}

func TestPendingRequest_StateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *domain.PendingRequest)
		apply   func(r *domain.PendingRequest) error
		wantErr bool
	}{
		{
			name:    "requesting cannot jump to cancelling",
			apply:   func(r *domain.PendingRequest) error { return r.MarkCancelling(now) },
			wantErr: true,
		},
		{
			name:    "requesting cannot be exhausted",
			apply:   func(r *domain.PendingRequest) error { return r.MarkExhausted(now) },
			wantErr: true,
		},
		{
			name:  "requesting may fail",
			apply: func(r *domain.PendingRequest) error { return r.Fail("VALIDATION_ERROR", "bad amount", now) },
		},
		{
			name: "awaiting consent cannot be resolved directly",
			setup: func(r *domain.PendingRequest) {
				_ = r.MarkInitiated("id", nil, true, now)
			},
			apply:   func(r *domain.PendingRequest) error { return r.Resolve(domain.SettlementSuccess, "", now) },
			wantErr: true,
		},
		{
			name: "polling cannot go back to cancelling",
			setup: func(r *domain.PendingRequest) {
				_ = r.MarkInitiated("id", nil, false, now)
			},
			apply:   func(r *domain.PendingRequest) error { return r.MarkCancelling(now) },
			wantErr: true,
		},
		{
			name: "terminal request cannot move",
			setup: func(r *domain.PendingRequest) {
				_ = r.Fail("X", "y", now)
			},
			apply:   func(r *domain.PendingRequest) error { return r.MarkUnconfirmed("X", "y", now) },
			wantErr: true,
		},
		{
			name: "cancelling may end unconfirmed",
			setup: func(r *domain.PendingRequest) {
				_ = r.MarkInitiated("id", nil, true, now)
				_ = r.MarkCancelling(now)
			},
			apply: func(r *domain.PendingRequest) error { return r.MarkUnconfirmed("NETWORK_ERROR", "timeout", now) },
		},
		{
			name: "pending settlement is not a resolution",
			setup: func(r *domain.PendingRequest) {
				_ = r.MarkInitiated("id", nil, false, now)
			},
			apply:   func(r *domain.PendingRequest) error { return r.Resolve(domain.SettlementPending, "", now) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, domain.KindPayment)
			if tt.setup != nil {
				tt.setup(req)
			}

			err := tt.apply(req)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPendingRequest_RecordAttempt(t *testing.T) {
	t.Run("rejects attempts outside polling", func(t *testing.T) {
		req := newRequest(t, domain.KindPayment)

		err := req.RecordAttempt(domain.PollAttempt{AttemptNumber: 1})

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("is bounded by max attempts", func(t *testing.T) {
		req := newRequest(t, domain.KindPayment)
		require.NoError(t, req.MarkInitiated("id", nil, false, now))
		require.NoError(t, req.MarkPolling(2, now))

		require.NoError(t, req.RecordAttempt(domain.PollAttempt{AttemptNumber: 1}))
		require.NoError(t, req.RecordAttempt(domain.PollAttempt{AttemptNumber: 2}))
		err := req.RecordAttempt(domain.PollAttempt{AttemptNumber: 3})

		assert.ErrorIs(t, err, domain.ErrAttemptLimit)
		assert.Len(t, req.Attempts, 2)
	})

	t.Run("is append-only in order", func(t *testing.T) {
		req := newRequest(t, domain.KindPayment)
		require.NoError(t, req.MarkInitiated("id", nil, false, now))
		require.NoError(t, req.MarkPolling(5, now))

		err := req.RecordAttempt(domain.PollAttempt{AttemptNumber: 2})

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAttemptOrder))
	})
}

func TestPendingRequest_Settle(t *testing.T) {
	t.Run("settles an exhausted request once", func(t *testing.T) {
		req := newRequest(t, domain.KindWithdrawal)
		require.NoError(t, req.MarkInitiated("id", nil, false, now))
		require.NoError(t, req.MarkExhausted(now))

		require.NoError(t, req.Settle(domain.SettlementSuccess, "", now))
		assert.Equal(t, domain.StatusExhausted, req.Status)
		require.NotNil(t, req.Settlement)
		assert.Equal(t, domain.SettlementSuccess, *req.Settlement)

		err := req.Settle(domain.SettlementFailed, "late", now)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAlreadySettled))
	})

	t.Run("rejects requests with a known outcome", func(t *testing.T) {
		req := newRequest(t, domain.KindWithdrawal)
		require.NoError(t, req.Fail("SERVER_REJECTED", "no", now))

		err := req.Settle(domain.SettlementSuccess, "", now)

		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestAmountPolicy(t *testing.T) {
	ceiling := decimal.RequireFromString("50.00")
	policy := domain.AmountPolicy{Minimum: decimal.RequireFromString("0.10"), Ceiling: &ceiling}

	tests := []struct {
		amount string
		code   string
	}{
		{"100.00", domain.ErrCodeAmountExceedsCeiling},
		{"0.05", domain.ErrCodeAmountBelowMinimum},
		{"0", domain.ErrCodeInvalidAmount},
		{"-3", domain.ErrCodeInvalidAmount},
		{"50.00", ""},
		{"0.10", ""},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			money, err := domain.ParseMoney(tt.amount, domain.DefaultCurrency)
			require.NoError(t, err)

			err = policy.Validate(money)

			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, domain.IsErrorCode(err, tt.code), "got %v", err)
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		})
	}
}

func TestParseMoney(t *testing.T) {
	t.Run("keeps minor units exact", func(t *testing.T) {
		money, err := domain.ParseMoney("19.99", domain.DefaultCurrency)

		require.NoError(t, err)
		assert.Equal(t, int64(1999), money.MinorUnits())
		assert.Equal(t, "19.99", money.String())
	})

	t.Run("rejects sub-minor precision", func(t *testing.T) {
		_, err := domain.ParseMoney("1.005", domain.DefaultCurrency)

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := domain.ParseMoney("ten", domain.DefaultCurrency)

		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}
