package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/backend"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
)

// Flows is the part of the orchestrator the reconciler needs.
type Flows interface {
	IsRunning(id string) bool
	Adapter(kind domain.Kind) (application.FlowAdapter, bool)
}

type Clock interface {
	Now() time.Time
}

// Reconciler closes out requests whose flow died with the process and
// records late settlements for requests that ended Unconfirmed or Exhausted.
// It never changes the lifecycle status of a terminal request.
type Reconciler struct {
	repo    application.RequestRepository
	flows   Flows
	retry   config.RetryConfig
	clock   Clock
	cfg     config.WorkerConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewReconciler(
	repo application.RequestRepository,
	flows Flows,
	retry config.RetryConfig,
	clock Clock,
	cfg config.WorkerConfig,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		repo:    repo,
		flows:   flows,
		retry:   retry,
		clock:   clock,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("starting background reconciler", "interval", r.cfg.Interval, "batch_size", r.cfg.BatchSize)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping background reconciler")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// RunOnce executes a single reconciliation cycle.
func (r *Reconciler) RunOnce(ctx context.Context) {
	r.run(ctx)
}

func (r *Reconciler) run(ctx context.Context) {
	r.sweepOrphans(ctx)
	r.settleUndetermined(ctx)
}

// sweepOrphans marks active requests that no flow in this process owns as
// Unconfirmed, releasing their resource. The write only lands while the
// stored request is still active.
func (r *Reconciler) sweepOrphans(ctx context.Context) {
	stale, err := r.repo.FindStale(ctx, r.clock.Now().Add(-r.cfg.OrphanAfter), r.cfg.BatchSize)
	if err != nil {
		r.logger.Error("failed to fetch stale requests", "error", err)
		return
	}

	for _, req := range stale {
		if r.flows.IsRunning(req.ID) {
			continue
		}

		err := req.MarkUnconfirmed(application.ErrCodeUnconfirmed, "the flow stopped before an outcome was known", r.clock.Now())
		if err != nil {
			r.logger.Error("cannot close orphaned request", "id", req.ID, "status", req.Status, "error", err)
			continue
		}
		if err := r.repo.Update(ctx, req); err != nil {
			if errors.Is(err, domain.ErrRequestClosed) {
				r.logger.Debug("request closed by its flow during sweep", "id", req.ID)
				continue
			}
			r.logger.Error("failed to persist orphaned request", "id", req.ID, "error", err)
			continue
		}

		r.metrics.ObserveOutcome(string(req.Kind), string(req.Status), req.UpdatedAt.Sub(req.CreatedAt))
		r.logger.Warn("closed orphaned request", "id", req.ID, "kind", req.Kind, "resource_id", req.ResourceID)
	}
}

func (r *Reconciler) settleUndetermined(ctx context.Context) {
	unsettled, err := r.repo.FindUnsettled(ctx, r.clock.Now().Add(-r.cfg.SettleAfter), r.cfg.BatchSize)
	if err != nil {
		r.logger.Error("failed to fetch unsettled requests", "error", err)
		return
	}

	if len(unsettled) == 0 {
		return
	}

	r.logger.Info("reconciling unsettled requests", "count", len(unsettled))

	for _, req := range unsettled {
		if err := r.settle(ctx, req); err != nil {
			r.logger.Error("reconciliation failed for request", "id", req.ID, "error", err,
				"category", application.CategorizeError(err))
		}
	}
}

func (r *Reconciler) settle(ctx context.Context, req *domain.PendingRequest) error {
	adapter, ok := r.flows.Adapter(req.Kind)
	if !ok {
		return domain.NewInvalidKindError(string(req.Kind))
	}

	report, err := backend.NewRetryStatusSource(adapter, r.retry).QueryStatus(ctx, req.RequestID)
	if err != nil {
		return err
	}
	if !report.Settlement.IsTerminal() {
		r.logger.Debug("request still pending on the server", "id", req.ID, "raw_status", report.RawStatus)
		return nil
	}

	if err := req.Settle(report.Settlement, report.FailReason, r.clock.Now()); err != nil {
		return err
	}
	if err := r.repo.Update(ctx, req); err != nil {
		return err
	}

	r.metrics.ObserveLateSettlement(string(req.Kind), string(report.Settlement))
	r.logger.Info("recorded late settlement",
		"id", req.ID,
		"status", req.Status,
		"settlement", report.Settlement)
	return nil
}
