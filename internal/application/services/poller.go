package services

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
)

// PollResult is either a terminal settlement or Exhausted.
type PollResult struct {
	Settlement domain.SettlementStatus
	FailReason string
	Attempts   int
	Exhausted  bool
}

// AttemptObserver sees every attempt in order, terminal or not.
type AttemptObserver func(attempt domain.PollAttempt)

type StatusPoller struct {
	clock   Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewStatusPoller(clock Clock, metrics *observability.Metrics, logger *slog.Logger) *StatusPoller {
	return &StatusPoller{
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// PollUntilTerminal issues at most policy.MaxAttempts status queries spaced by
// policy.Interval. Query errors count as non-terminal attempts.
// A done ctx ends polling early with Exhausted.
func (p *StatusPoller) PollUntilTerminal(
	ctx context.Context,
	kind domain.Kind,
	source application.StatusSource,
	requestID string,
	policy PollPolicy,
	observe AttemptObserver,
) PollResult {
	maxAttempts := max(policy.MaxAttempts, 1)

	if policy.InitialDelay > 0 {
		if err := p.clock.Sleep(ctx, policy.InitialDelay); err != nil {
			return PollResult{Exhausted: true}
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pa := p.query(ctx, kind, source, requestID, attempt)
		if observe != nil {
			observe(pa.attempt)
		}

		if pa.attempt.IsTerminal {
			return PollResult{
				Settlement: pa.settlement,
				FailReason: pa.failReason,
				Attempts:   attempt,
			}
		}

		if attempt == maxAttempts {
			break
		}
		if err := p.clock.Sleep(ctx, policy.Interval); err != nil {
			p.logger.Info("polling interrupted", "request_id", requestID, "attempt", attempt, "error", err)
			return PollResult{Attempts: attempt, Exhausted: true}
		}
	}

	p.logger.Info("polling exhausted", "request_id", requestID, "attempts", maxAttempts)
	return PollResult{Attempts: maxAttempts, Exhausted: true}
}

type queryResult struct {
	attempt    domain.PollAttempt
	settlement domain.SettlementStatus
	failReason string
}

func (p *StatusPoller) query(
	ctx context.Context,
	kind domain.Kind,
	source application.StatusSource,
	requestID string,
	attempt int,
) queryResult {
	report, err := source.QueryStatus(ctx, requestID)
	observedAt := p.clock.Now()

	if err != nil {
		p.logger.Warn("status query failed, will retry",
			"request_id", requestID,
			"attempt", attempt,
			"category", application.CategorizeError(err),
			"error", err)
		p.metrics.ObservePollAttempt(string(kind), "error")
		return queryResult{attempt: domain.PollAttempt{
			AttemptNumber: attempt,
			Error:         err.Error(),
			ObservedAt:    observedAt,
		}}
	}

	terminal := report.Settlement.IsTerminal()
	result := "pending"
	if terminal {
		result = "terminal"
	}
	p.metrics.ObservePollAttempt(string(kind), result)

	return queryResult{
		attempt: domain.PollAttempt{
			AttemptNumber:  attempt,
			ObservedStatus: report.RawStatus,
			IsTerminal:     terminal,
			ObservedAt:     observedAt,
		},
		settlement: report.Settlement,
		failReason: report.FailReason,
	}
}
