package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDispatcher struct {
	dispatchFn func(ctx context.Context, cmd services.ConfirmCommand) (*domain.PendingRequest, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, cmd services.ConfirmCommand) (*domain.PendingRequest, error) {
	return m.dispatchFn(ctx, cmd)
}

type mockQueries struct {
	findByIDFn func(ctx context.Context, id string) (*domain.PendingRequest, error)
}

func (m *mockQueries) FindByID(ctx context.Context, id string) (*domain.PendingRequest, error) {
	return m.findByIDFn(ctx, id)
}

type mockPrompts struct {
	pending []hostbridge.Prompt
	replyFn func(id string, reply hostbridge.Reply) error
}

func (m *mockPrompts) Pending() []hostbridge.Prompt { return m.pending }

func (m *mockPrompts) Reply(id string, reply hostbridge.Reply) error {
	return m.replyFn(id, reply)
}

type mockIdentity struct {
	invalidated bool
	err         error
}

func (m *mockIdentity) Invalidate(context.Context) error {
	m.invalidated = true
	return m.err
}

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newServer(d handlers.Dispatcher, q handlers.Queries, p handlers.Prompts, i handlers.IdentitySession) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	handlers.NewHandlers(d, q, p, i, logger).Register(mux)
	return mux
}

func pendingRequest(t *testing.T, kind domain.Kind) *domain.PendingRequest {
	t.Helper()
	amount, err := domain.ParseMoney("25.00", domain.DefaultCurrency)
	require.NoError(t, err)
	req, err := domain.NewPendingRequest("req-1", kind, "order-1", amount, t0)
	require.NoError(t, err)
	return req
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestCreateConfirmation_Accepted(t *testing.T) {
	var got services.ConfirmCommand
	dispatcher := &mockDispatcher{
		dispatchFn: func(ctx context.Context, cmd services.ConfirmCommand) (*domain.PendingRequest, error) {
			got = cmd
			return pendingRequest(t, cmd.Kind), nil
		},
	}
	mux := newServer(dispatcher, nil, nil, nil)

	rr := do(mux, http.MethodPost, "/v1/confirmations",
		`{"kind":"withdrawal","resource_id":"order-1","amount":"25.00","ceiling":"100.50"}`)

	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp api.ConfirmationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.Data.ID)
	assert.Equal(t, "REQUESTING", resp.Data.Status)
	assert.Empty(t, resp.Data.Guidance, "active requests carry no guidance")

	assert.Equal(t, domain.KindWithdrawal, got.Kind)
	assert.Equal(t, "25", got.Amount.String())
	require.NotNil(t, got.Ceiling)
	assert.Equal(t, "100.5", got.Ceiling.String())
}

func TestCreateConfirmation_InFlightIsConflict(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFn: func(ctx context.Context, cmd services.ConfirmCommand) (*domain.PendingRequest, error) {
			return nil, application.NewRequestInFlightError(domain.NewRequestInFlightError(cmd.Kind, cmd.ResourceID))
		},
	}
	mux := newServer(dispatcher, nil, nil, nil)

	rr := do(mux, http.MethodPost, "/v1/confirmations", `{"kind":"payment","resource_id":"order-1","amount":"1"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, application.ErrCodeRequestInFlight, resp.Error.Code)
}

func TestCreateConfirmation_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"kind":`},
		{"unknown kind", `{"kind":"refund","resource_id":"o","amount":"1"}`},
		{"missing resource", `{"kind":"payment","resource_id":" ","amount":"1"}`},
		{"bad amount", `{"kind":"payment","resource_id":"o","amount":"ten"}`},
		{"bad ceiling", `{"kind":"payment","resource_id":"o","amount":"1","ceiling":"x"}`},
		{"unknown field", `{"kind":"payment","resource_id":"o","amount":"1","extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &mockDispatcher{
				dispatchFn: func(context.Context, services.ConfirmCommand) (*domain.PendingRequest, error) {
					t.Fatal("dispatch must not be reached")
					return nil, nil
				},
			}
			mux := newServer(dispatcher, nil, nil, nil)

			rr := do(mux, http.MethodPost, "/v1/confirmations", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), application.ErrCodeValidation)
		})
	}
}

func TestGetConfirmation_TerminalCarriesGuidance(t *testing.T) {
	queries := &mockQueries{
		findByIDFn: func(ctx context.Context, id string) (*domain.PendingRequest, error) {
			req := pendingRequest(t, domain.KindPayment)
			require.NoError(t, req.MarkInitiated("PAY-1", nil, false, t0))
			require.NoError(t, req.MarkPolling(2, t0))
			require.NoError(t, req.RecordAttempt(domain.PollAttempt{AttemptNumber: 1, ObservedStatus: "pending", ObservedAt: t0}))
			require.NoError(t, req.MarkExhausted(t0.Add(time.Second)))
			return req, nil
		},
	}
	mux := newServer(nil, queries, nil, nil)

	rr := do(mux, http.MethodGet, "/v1/confirmations/req-1", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.ConfirmationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "EXHAUSTED", resp.Data.Status)
	assert.Equal(t, string(services.GuidanceCheckBackLater), resp.Data.Guidance)
	assert.Equal(t, application.ErrCodeExhausted, resp.Data.ErrorCode)
	require.Len(t, resp.Data.Attempts, 1)
	assert.Equal(t, "pending", resp.Data.Attempts[0].ObservedStatus)
	assert.NotNil(t, resp.Data.CompletedAt)
}

func TestGetConfirmation_NotFound(t *testing.T) {
	queries := &mockQueries{
		findByIDFn: func(ctx context.Context, id string) (*domain.PendingRequest, error) {
			return nil, application.NewNotFoundError(domain.NewRequestNotFoundError(id))
		},
	}
	mux := newServer(nil, queries, nil, nil)

	rr := do(mux, http.MethodGet, "/v1/confirmations/missing", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), application.ErrCodeNotFound)
}

func TestListPrompts(t *testing.T) {
	prompts := &mockPrompts{pending: []hostbridge.Prompt{{
		ID:              "req-1",
		Kind:            hostbridge.PromptConsent,
		RequestKind:     domain.KindWithdrawal,
		ServerRequestID: "B-1",
		Payload:         json.RawMessage(`{"mch_id":"m","package":"p"}`),
		CreatedAt:       t0,
	}}}
	mux := newServer(nil, nil, prompts, nil)

	rr := do(mux, http.MethodGet, "/v1/host/prompts", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.PromptListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "consent", resp.Data[0].Kind)
	assert.Equal(t, "WITHDRAWAL", resp.Data[0].RequestKind)
	assert.JSONEq(t, `{"mch_id":"m","package":"p"}`, string(resp.Data[0].Payload))
}

func TestReplyPrompt(t *testing.T) {
	tests := []struct {
		name     string
		replyErr error
		want     int
	}{
		{"delivered", nil, http.StatusNoContent},
		{"unknown prompt", hostbridge.ErrPromptNotFound, http.StatusNotFound},
		{"invalid reply", hostbridge.ErrInvalidReply, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			var gotReply hostbridge.Reply
			prompts := &mockPrompts{
				replyFn: func(id string, reply hostbridge.Reply) error {
					gotID, gotReply = id, reply
					return tt.replyErr
				},
			}
			mux := newServer(nil, nil, prompts, nil)

			rr := do(mux, http.MethodPost, "/v1/host/prompts/req-1/reply", `{"outcome":"approved"}`)

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, "req-1", gotID)
			assert.Equal(t, "approved", gotReply.Outcome)
		})
	}
}

func TestInvalidateIdentity(t *testing.T) {
	identity := &mockIdentity{}
	mux := newServer(nil, nil, nil, identity)

	rr := do(mux, http.MethodDelete, "/v1/session/identity", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, identity.invalidated)
}

func TestHealth(t *testing.T) {
	mux := newServer(nil, nil, nil, nil)

	rr := do(mux, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
