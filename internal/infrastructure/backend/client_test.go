package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second, Token: "tok"})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s, domain.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func TestPaymentAdapter_Initiate(t *testing.T) {
	var got map[string]any
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"code":0,"message":"ok","data":{"payment_no":"PAY-1","amount":12.5,"pay_params":{"package":"prepay_id=1"}}}`)
	})

	adapter := backend.NewPaymentAdapter(client)
	initiation, err := adapter.Initiate(context.Background(), application.InitiateRequest{
		ResourceID: "order-1",
		Amount:     mustMoney(t, "12.5"),
		Method:     backend.MethodWechat,
		PayType:    "prepay",
		Identity:   &domain.IdentityToken{Value: "openid-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "PAY-1", initiation.RequestID)
	assert.True(t, initiation.ConsentRequired)
	assert.JSONEq(t, `{"package":"prepay_id=1"}`, string(initiation.ConsentPayload))
	assert.Equal(t, "order-1", got["order_id"])
	assert.Equal(t, 12.5, got["amount"])
	assert.Equal(t, "openid-1", got["openid"])
	assert.Equal(t, "prepay", got["type"])
}

func TestPaymentAdapter_TestMethodSkipsConsent(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":200,"data":{"payment_no":"PAY-2","pay_params":{"ok":true}}}`)
	})

	initiation, err := backend.NewPaymentAdapter(client).Initiate(context.Background(), application.InitiateRequest{
		ResourceID: "order-2",
		Amount:     mustMoney(t, "1.00"),
		Method:     backend.MethodTest,
	})

	require.NoError(t, err)
	assert.False(t, initiation.ConsentRequired)
	assert.False(t, backend.NewPaymentAdapter(client).RequiresIdentity(backend.MethodTest))
	assert.True(t, backend.NewPaymentAdapter(client).RequiresIdentity(backend.MethodWechat))
}

func TestClient_EnvelopeConventions(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{"code zero", http.StatusOK, `{"code":0,"data":{"payment_no":"P"}}`, false, 0, 0, ""},
		{"code 200", http.StatusOK, `{"code":200,"data":{"payment_no":"P"}}`, false, 0, 0, ""},
		{"success true", http.StatusOK, `{"success":true,"data":{"payment_no":"P"}}`, false, 0, 0, ""},
		{"bare body", http.StatusOK, `{"data":{"payment_no":"P"}}`, false, 0, 0, ""},
		{"business code", http.StatusOK, `{"code":4001,"message":"order closed"}`, true, 200, 4001, "order closed"},
		{"success false", http.StatusOK, `{"success":false,"message":"nope"}`, true, 200, 0, "nope"},
		{"http 400 envelope", http.StatusBadRequest, `{"code":400,"message":"bad amount"}`, true, 400, 400, "bad amount"},
		{"http 502 html", http.StatusBadGateway, `<html>bad gateway</html>`, true, 502, 0, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := backend.NewPaymentAdapter(client).Initiate(context.Background(), application.InitiateRequest{
				ResourceID: "order-1",
				Amount:     mustMoney(t, "1.00"),
				Method:     backend.MethodTest,
			})

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			backendErr, ok := application.IsBackendError(err)
			require.True(t, ok, "expected backend error, got %v", err)
			assert.Equal(t, tt.wantStatus, backendErr.StatusCode)
			assert.Equal(t, tt.wantCode, backendErr.Code)
			assert.Equal(t, tt.wantMsg, backendErr.Message)
		})
	}
}

func TestClient_TransportFailureIsNotBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := backend.NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := backend.NewPaymentAdapter(client).QueryStatus(context.Background(), "PAY-1")

	require.Error(t, err)
	_, ok := application.IsBackendError(err)
	assert.False(t, ok)
	assert.Equal(t, application.ErrCodeNetwork, application.CategorizeInitiationError(err).Code)
}

func TestPaymentAdapter_QueryStatusNormalizes(t *testing.T) {
	tests := map[string]domain.SettlementStatus{
		"paid":       domain.SettlementSuccess,
		"SUCCESS":    domain.SettlementSuccess,
		"failed":     domain.SettlementFailed,
		"cancelled":  domain.SettlementCancelled,
		"pending":    domain.SettlementPending,
		"processing": domain.SettlementPending,
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/payments/PAY-1/status", r.URL.Path)
				writeJSON(w, http.StatusOK, `{"code":0,"data":{"status":"`+raw+`","fail_reason":"r"}}`)
			})

			report, err := backend.NewPaymentAdapter(client).QueryStatus(context.Background(), "PAY-1")

			require.NoError(t, err)
			assert.Equal(t, raw, report.RawStatus)
			assert.Equal(t, want, report.Settlement)
		})
	}
}

func TestCancel_SuccessFalseIsADeclinedReply(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/PAY-1/cancel", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":false,"message":"already paid"}`)
	})

	reply, err := backend.NewPaymentAdapter(client).Cancel(context.Background(), "PAY-1")

	require.NoError(t, err)
	assert.False(t, reply.Accepted)
	assert.Equal(t, "already paid", reply.Message)
}

func TestCancel_ServerErrorIsReturned(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"message":"down"}`)
	})

	reply, err := backend.NewWithdrawalAdapter(client, "mch").Cancel(context.Background(), "B-1")

	assert.Nil(t, reply)
	backendErr, ok := application.IsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, backendErr.StatusCode)
}

func TestWithdrawalAdapter_Initiate(t *testing.T) {
	tests := []struct {
		name            string
		data            string
		consentRequired bool
	}{
		{"waits for user", `{"state":"WAIT_USER_CONFIRM","package_info":"pkg-1","out_batch_no":"B-1"}`, true},
		{"already processing", `{"state":"PROCESSING","out_batch_no":"B-1"}`, false},
		{"wait without package", `{"state":"WAIT_USER_CONFIRM","out_batch_no":"B-1"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/electricians/withdraw", r.URL.Path)
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, 20.0, body["amount"])
				writeJSON(w, http.StatusOK, `{"code":0,"data":`+tt.data+`}`)
			})

			initiation, err := backend.NewWithdrawalAdapter(client, "mch-9").Initiate(context.Background(), application.InitiateRequest{
				ResourceID: "wallet",
				Amount:     mustMoney(t, "20"),
			})

			require.NoError(t, err)
			assert.Equal(t, "B-1", initiation.RequestID)
			assert.Equal(t, tt.consentRequired, initiation.ConsentRequired)
			if tt.consentRequired {
				assert.JSONEq(t, `{"mch_id":"mch-9","package":"pkg-1"}`, string(initiation.ConsentPayload))
			}
		})
	}
}

func TestWithdrawalAdapter_QueryStatus(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/electricians/withdrawals/B-1/status", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"code":0,"data":{"status":"failed","fail_reason":"payee blocked","wechat_state":"FAIL"}}`)
	})

	report, err := backend.NewWithdrawalAdapter(client, "").QueryStatus(context.Background(), "B-1")

	require.NoError(t, err)
	assert.Equal(t, domain.SettlementFailed, report.Settlement)
	assert.Equal(t, "failed/FAIL", report.RawStatus)
	assert.Equal(t, "payee blocked", report.FailReason)
}

func TestClient_ExchangeLoginCode(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/code2session", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["code"] == "good" {
			writeJSON(w, http.StatusOK, `{"code":0,"data":{"openid":"oid-1"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"code":0,"data":{}}`)
	})

	openID, err := client.ExchangeLoginCode(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "oid-1", openID)

	_, err = client.ExchangeLoginCode(context.Background(), "bad")
	assert.ErrorIs(t, err, backend.ErrEmptyOpenID)
}
