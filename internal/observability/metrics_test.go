package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics

	assert.NotPanics(t, func() {
		m.ObserveOutcome("PAYMENT", "SUCCESS", time.Second)
		m.ObservePollAttempt("PAYMENT", "pending")
		m.ObserveInitiationError("PAYMENT", "NETWORK_ERROR")
		m.ObserveCancellation("WITHDRAWAL", "cancelled")
		m.ObserveIdentityResolution("MEMORY_CACHE")
		m.ObserveLateSettlement("PAYMENT", "SUCCESS")
		m.SetPendingPrompts(2)
		m.ObserveHTTPRequest("GET", "/healthz", 200)
		m.ObserveRateLimited()
	})
	assert.Nil(t, m.Registry())
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveOutcome("PAYMENT", "SUCCESS", 3*time.Second)
	m.ObserveOutcome("PAYMENT", "SUCCESS", time.Second)
	m.ObserveOutcome("WITHDRAWAL", "EXHAUSTED", 15*time.Second)

	count, err := testutil.GatherAndCount(m.Registry(), "confirmer_outcomes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObservePollAttempt("PAYMENT", "pending")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `confirmer_poll_attempts_total{kind="PAYMENT",result="pending"} 1`)
}
