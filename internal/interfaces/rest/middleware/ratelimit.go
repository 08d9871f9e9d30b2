package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"golang.org/x/time/rate"
)

// RateLimit throttles /v1 calls with a single token bucket. The agent serves
// one local host, so there is no per-client keying.
func RateLimit(cfg config.RateLimitConfig, metrics *observability.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/v1/") || limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			metrics.ObserveRateLimited()
			w.Header().Set("Retry-After", "1")
			rest.WriteJSON(w, http.StatusTooManyRequests, api.ErrorResponse{
				Error: api.ErrorDetail{
					Code:    "RATE_LIMITED",
					Message: "Too many requests",
				},
			}, logger)
		})
	}
}
