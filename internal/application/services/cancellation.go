package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"golang.org/x/sync/singleflight"
)

type CancelResult string

const (
	CancelResultCancelled    CancelResult = "cancelled"
	CancelResultRejected     CancelResult = "rejected"
	CancelResultNetworkError CancelResult = "network_error"
)

type CancelOutcome struct {
	Result  CancelResult
	Message string
	Err     error
}

const defaultCancelMemo = 1024

// CancellationCoordinator issues compensating cancel calls. Definite answers
// are remembered per request so a repeated cancel never reaches the server twice.
// Network errors are not remembered.
type CancellationCoordinator struct {
	group   singleflight.Group
	mu      sync.Mutex
	settled map[string]CancelOutcome
	order   []string
	limit   int
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCancellationCoordinator(metrics *observability.Metrics, logger *slog.Logger) *CancellationCoordinator {
	return &CancellationCoordinator{
		settled: make(map[string]CancelOutcome),
		limit:   defaultCancelMemo,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CancellationCoordinator) Cancel(ctx context.Context, adapter application.FlowAdapter, requestID string) CancelOutcome {
	key := string(adapter.Kind()) + "/" + requestID

	if outcome, ok := c.lookup(key); ok {
		c.logger.Info("cancel already settled", "request_id", requestID, "result", outcome.Result)
		return outcome
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		if outcome, ok := c.lookup(key); ok {
			return outcome, nil
		}
		outcome := c.call(ctx, adapter, requestID)
		if outcome.Result != CancelResultNetworkError {
			c.remember(key, outcome)
		}
		c.metrics.ObserveCancellation(string(adapter.Kind()), string(outcome.Result))
		return outcome, nil
	})
	return v.(CancelOutcome)
}

func (c *CancellationCoordinator) call(ctx context.Context, adapter application.FlowAdapter, requestID string) CancelOutcome {
	reply, err := adapter.Cancel(ctx, requestID)
	if err != nil {
		if application.IsDefiniteCancelRejection(err) {
			msg := err.Error()
			if backendErr, ok := application.IsBackendError(err); ok && backendErr.Message != "" {
				msg = backendErr.Message
			}
			c.logger.Info("cancel rejected by server", "request_id", requestID, "message", msg)
			return CancelOutcome{Result: CancelResultRejected, Message: msg, Err: err}
		}
		c.logger.Warn("cancel outcome unknown", "request_id", requestID, "error", err)
		return CancelOutcome{Result: CancelResultNetworkError, Message: err.Error(), Err: err}
	}

	if reply == nil {
		return CancelOutcome{Result: CancelResultNetworkError, Message: "empty cancel reply"}
	}
	if !reply.Accepted {
		c.logger.Info("cancel rejected by server", "request_id", requestID, "message", reply.Message)
		return CancelOutcome{Result: CancelResultRejected, Message: reply.Message}
	}

	c.logger.Info("cancel acknowledged", "request_id", requestID)
	return CancelOutcome{Result: CancelResultCancelled, Message: reply.Message}
}

func (c *CancellationCoordinator) lookup(key string) (CancelOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outcome, ok := c.settled[key]
	return outcome, ok
}

func (c *CancellationCoordinator) remember(key string, outcome CancelOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.settled[key]; ok {
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.settled, oldest)
	}
	c.settled[key] = outcome
	c.order = append(c.order, key)
}
