package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"github.com/google/uuid"
)

// Orchestrator drives one PendingRequest from Requesting to a terminal
// status. It is the only writer of a request while the flow runs.
type Orchestrator struct {
	repo      application.RequestRepository
	initiator *RequestInitiator
	consent   application.ConsentGate
	canceller *CancellationCoordinator
	poller    *StatusPoller
	flows     map[domain.Kind]Flow
	clock     Clock
	metrics   *observability.Metrics
	logger    *slog.Logger
	newID     func() string

	running sync.Map
}

func NewOrchestrator(
	repo application.RequestRepository,
	initiator *RequestInitiator,
	consent application.ConsentGate,
	canceller *CancellationCoordinator,
	poller *StatusPoller,
	clock Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
	flows ...Flow,
) *Orchestrator {
	byKind := make(map[domain.Kind]Flow, len(flows))
	for _, f := range flows {
		byKind[f.Adapter.Kind()] = f
	}

	return &Orchestrator{
		repo:      repo,
		initiator: initiator,
		consent:   consent,
		canceller: canceller,
		poller:    poller,
		flows:     byKind,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Adapter returns the registered adapter for kind.
func (o *Orchestrator) Adapter(kind domain.Kind) (application.FlowAdapter, bool) {
	f, ok := o.flows[kind]
	return f.Adapter, ok
}

// IsRunning reports whether a flow for the request is executing in this process.
func (o *Orchestrator) IsRunning(id string) bool {
	_, ok := o.running.Load(id)
	return ok
}

// Confirm runs the whole flow synchronously.
func (o *Orchestrator) Confirm(ctx context.Context, cmd ConfirmCommand) (*Outcome, error) {
	req, err := o.Begin(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx, req, cmd)
}

// Begin records a new request in Requesting. The repository rejects it when
// another request for the same resource is still active.
func (o *Orchestrator) Begin(ctx context.Context, cmd ConfirmCommand) (*domain.PendingRequest, error) {
	if _, ok := o.flows[cmd.Kind]; !ok {
		return nil, application.NewValidationError(domain.NewInvalidKindError(string(cmd.Kind)))
	}

	currency := cmd.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	money, err := domain.NewMoney(cmd.Amount, currency)
	if err != nil {
		return nil, application.NewValidationError(err)
	}

	req, err := domain.NewPendingRequest(o.newID(), cmd.Kind, cmd.ResourceID, money, o.clock.Now())
	if err != nil {
		return nil, application.NewValidationError(err)
	}

	if err := o.repo.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrRequestInFlight) {
			return nil, application.NewRequestInFlightError(err)
		}
		return nil, application.NewInternalError(err)
	}

	o.logger.Info("confirmation started",
		"id", req.ID,
		"kind", req.Kind,
		"resource_id", req.ResourceID,
		"amount", req.Amount.String())
	return req, nil
}

// Run executes the flow for a request created by Begin. A request may be run
// once; calling Run again while it runs or after it ended is rejected.
func (o *Orchestrator) Run(ctx context.Context, req *domain.PendingRequest, cmd ConfirmCommand) (*Outcome, error) {
	if _, loaded := o.running.LoadOrStore(req.ID, struct{}{}); loaded {
		return nil, application.NewRequestInFlightError(domain.NewRequestInFlightError(req.Kind, req.ResourceID))
	}
	defer o.running.Delete(req.ID)

	if req.Status != domain.StatusRequesting {
		return nil, application.NewInvalidStateError(domain.NewInvalidStateError(req.Status, domain.StatusRequesting))
	}
	flow, ok := o.flows[req.Kind]
	if !ok {
		return nil, application.NewValidationError(domain.NewInvalidKindError(string(req.Kind)))
	}

	started := o.clock.Now()
	o.execute(ctx, flow, req, cmd)

	outcome := OutcomeFrom(req)
	o.metrics.ObserveOutcome(string(req.Kind), string(req.Status), o.clock.Now().Sub(started))
	o.logger.Info("confirmation finished",
		"id", req.ID,
		"request_id", req.RequestID,
		"kind", req.Kind,
		"status", req.Status,
		"guidance", outcome.Guidance,
		"attempts", outcome.Attempts)
	return outcome, nil
}

func (o *Orchestrator) execute(ctx context.Context, flow Flow, req *domain.PendingRequest, cmd ConfirmCommand) {
	initiation, err := o.initiator.Initiate(ctx, flow, req, cmd)
	if err != nil {
		svcErr := application.CategorizeInitiationError(err)
		o.metrics.ObserveInitiationError(string(req.Kind), svcErr.Code)
		o.apply(ctx, req, func(now time.Time) error {
			return req.Fail(svcErr.Code, failureReason(svcErr), now)
		})
		return
	}

	ok := o.apply(ctx, req, func(now time.Time) error {
		return req.MarkInitiated(initiation.RequestID, initiation.ConsentPayload, initiation.ConsentRequired, now)
	})
	if !ok {
		return
	}

	if req.Status == domain.StatusAwaitingConsent && !o.awaitConsent(ctx, flow, req) {
		return
	}
	o.poll(ctx, flow, req)
}

// awaitConsent reports whether the flow continues with polling.
func (o *Orchestrator) awaitConsent(ctx context.Context, flow Flow, req *domain.PendingRequest) bool {
	decision, err := o.consent.RequestConsent(ctx, application.ConsentRequest{
		ID:              req.ID,
		ServerRequestID: req.RequestID,
		Kind:            req.Kind,
		Payload:         req.ConsentPayload,
	})
	if err != nil {
		o.logger.Warn("consent step ended without a decision", "id", req.ID, "error", err)
		o.apply(ctx, req, func(now time.Time) error {
			return req.MarkUnconfirmed(application.ErrCodeUnconfirmed, "The confirmation step was interrupted before a decision", now)
		})
		return false
	}

	switch decision {
	case application.ConsentApproved:
		return true
	case application.ConsentUserCancelled:
		return o.cancel(ctx, flow, req)
	case application.ConsentDeclined:
	default:
		o.logger.Warn("unknown consent outcome treated as declined", "id", req.ID, "outcome", decision)
	}

	declined := application.NewConsentDeclinedError()
	o.apply(ctx, req, func(now time.Time) error {
		return req.Fail(declined.Code, declined.Message, now)
	})
	return false
}

// cancel reports whether the flow continues with polling.
func (o *Orchestrator) cancel(ctx context.Context, flow Flow, req *domain.PendingRequest) bool {
	if !o.apply(ctx, req, req.MarkCancelling) {
		return false
	}

	outcome := o.canceller.Cancel(ctx, flow.Adapter, req.RequestID)
	switch outcome.Result {
	case CancelResultCancelled:
		o.apply(ctx, req, req.MarkCancelled)
		return false
	case CancelResultRejected:
		o.logger.Info("cancel window missed, polling for the real outcome", "id", req.ID, "message", outcome.Message)
		return true
	default:
		unconfirmed := application.NewUnconfirmedError(outcome.Err)
		o.apply(ctx, req, func(now time.Time) error {
			return req.MarkUnconfirmed(unconfirmed.Code, unconfirmed.Message, now)
		})
		return false
	}
}

func (o *Orchestrator) poll(ctx context.Context, flow Flow, req *domain.PendingRequest) {
	policy := flow.Policy.Poll
	policy.MaxAttempts = max(policy.MaxAttempts, 1)

	ok := o.apply(ctx, req, func(now time.Time) error {
		return req.MarkPolling(policy.MaxAttempts, now)
	})
	if !ok {
		return
	}

	result := o.poller.PollUntilTerminal(ctx, req.Kind, flow.Adapter, req.RequestID, policy, func(a domain.PollAttempt) {
		if err := req.RecordAttempt(a); err != nil {
			o.logger.Error("poll attempt rejected", "id", req.ID, "attempt", a.AttemptNumber, "error", err)
			return
		}
		if err := o.repo.AppendPollAttempt(context.WithoutCancel(ctx), req.ID, a); err != nil {
			o.logger.Error("failed to persist poll attempt", "id", req.ID, "attempt", a.AttemptNumber, "error", err)
		}
	})

	if result.Exhausted {
		o.apply(ctx, req, req.MarkExhausted)
		return
	}
	o.apply(ctx, req, func(now time.Time) error {
		return req.Resolve(result.Settlement, result.FailReason, now)
	})
}

// apply runs one transition and persists it. A rejected transition leaves the
// request Unconfirmed so that its resource is released.
func (o *Orchestrator) apply(ctx context.Context, req *domain.PendingRequest, step func(now time.Time) error) bool {
	from := req.Status
	if err := step(o.clock.Now()); err != nil {
		o.logger.Error("transition rejected", "id", req.ID, "from", from, "error", err)
		if !req.IsTerminal() {
			if uerr := req.MarkUnconfirmed(application.ErrCodeInternal, err.Error(), o.clock.Now()); uerr == nil {
				o.persist(ctx, req)
			}
		}
		return false
	}

	o.persist(ctx, req)
	o.logger.Info("state transition",
		"id", req.ID,
		"request_id", req.RequestID,
		"kind", req.Kind,
		"from", from,
		"to", req.Status)
	return true
}

// persist survives caller cancellation so a final status always reaches storage.
func (o *Orchestrator) persist(ctx context.Context, req *domain.PendingRequest) {
	err := o.repo.Update(context.WithoutCancel(ctx), req)
	if errors.Is(err, domain.ErrRequestClosed) {
		o.logger.Warn("request was closed before the flow finished",
			"id", req.ID,
			"status", req.Status,
			"error", err)
		return
	}
	if err != nil {
		o.logger.Error("failed to persist request state",
			"id", req.ID,
			"status", req.Status,
			"action", "RECONCILER_WILL_RELEASE",
			"error", err)
	}
}

func failureReason(svcErr *application.ServiceError) string {
	switch svcErr.Code {
	case application.ErrCodeValidation, application.ErrCodeIdentityResolution:
		if svcErr.Err != nil {
			return svcErr.Err.Error()
		}
	}
	return svcErr.Message
}
