package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// OutcomeHandler receives exactly one outcome per dispatched request.
type OutcomeHandler func(outcome *Outcome)

// Dispatcher starts flows in the background. Begin runs on the caller's
// goroutine so in-flight conflicts are reported synchronously.
type Dispatcher struct {
	orchestrator *Orchestrator
	onOutcome    OutcomeHandler
	logger       *slog.Logger

	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewDispatcher binds flows to ctx; cancelling it stops consent waits and polling.
func NewDispatcher(ctx context.Context, orchestrator *Orchestrator, onOutcome OutcomeHandler, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		orchestrator: orchestrator,
		onOutcome:    onOutcome,
		logger:       logger,
		baseCtx:      ctx,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, cmd ConfirmCommand) (*domain.PendingRequest, error) {
	req, err := d.orchestrator.Begin(ctx, cmd)
	if err != nil {
		return nil, err
	}

	d.wg.Add(1)

	// The flow owns req from here on; callers get a snapshot.
	snapshot := *req

	go func() {
		defer d.wg.Done()

		outcome, err := d.orchestrator.Run(d.baseCtx, req, cmd)
		if err != nil {
			d.logger.Error("flow did not run", "id", req.ID, "error", err)
			return
		}
		if d.onOutcome != nil {
			d.onOutcome(outcome)
		}
	}()

	return &snapshot, nil
}

// Wait blocks until every dispatched flow has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
