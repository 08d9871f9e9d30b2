// Package observability exposes Prometheus metrics for the confirmation flow.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "confirmer"

// Metrics is safe to use as a nil pointer; every method becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry

	outcomes          *prometheus.CounterVec
	flowDuration      *prometheus.HistogramVec
	pollAttempts      *prometheus.CounterVec
	initiationErrors  *prometheus.CounterVec
	cancellations     *prometheus.CounterVec
	identityResolved  *prometheus.CounterVec
	settlements       *prometheus.CounterVec
	pendingPrompts    prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	rateLimitRejected prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Terminal confirmation outcomes by kind and status.",
		}, []string{"kind", "status"}),
		flowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_duration_seconds",
			Help:      "Time from initiation to terminal status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"kind", "status"}),
		pollAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_attempts_total",
			Help:      "Status queries issued while polling.",
		}, []string{"kind", "result"}),
		initiationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "initiation_errors_total",
			Help:      "Failed initiations by error code.",
		}, []string{"kind", "code"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Compensating cancel calls by result.",
		}, []string{"kind", "result"}),
		identityResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_resolutions_total",
			Help:      "Identity resolutions by the fallback step that answered.",
		}, []string{"source"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_settlements_total",
			Help:      "Outcomes learned by the reconciler after the session ended.",
		}, []string{"kind", "settlement"}),
		pendingPrompts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_prompts_pending",
			Help:      "Prompts waiting for a host reply.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Agent API requests by route and status code.",
		}, []string{"method", "route", "code"}),
		rateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Agent API requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		m.outcomes,
		m.flowDuration,
		m.pollAttempts,
		m.initiationErrors,
		m.cancellations,
		m.identityResolved,
		m.settlements,
		m.pendingPrompts,
		m.httpRequests,
		m.rateLimitRejected,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveOutcome(kind, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(kind, status).Inc()
	m.flowDuration.WithLabelValues(kind, status).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePollAttempt(kind, result string) {
	if m == nil {
		return
	}
	m.pollAttempts.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveInitiationError(kind, code string) {
	if m == nil {
		return
	}
	m.initiationErrors.WithLabelValues(kind, code).Inc()
}

func (m *Metrics) ObserveCancellation(kind, result string) {
	if m == nil {
		return
	}
	m.cancellations.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveIdentityResolution(source string) {
	if m == nil {
		return
	}
	m.identityResolved.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveLateSettlement(kind, settlement string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(kind, settlement).Inc()
}

func (m *Metrics) SetPendingPrompts(n int) {
	if m == nil {
		return
	}
	m.pendingPrompts.Set(float64(n))
}

func (m *Metrics) ObserveHTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimitRejected.Inc()
}
