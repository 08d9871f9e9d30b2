package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, cmd services.ConfirmCommand) (*domain.PendingRequest, error)
}

type Queries interface {
	FindByID(ctx context.Context, id string) (*domain.PendingRequest, error)
}

// Prompts is the host side of the prompt bridge.
type Prompts interface {
	Pending() []hostbridge.Prompt
	Reply(id string, reply hostbridge.Reply) error
}

type IdentitySession interface {
	Invalidate(ctx context.Context) error
}

const maxBodyBytes = 1 << 20

type Handlers struct {
	dispatcher Dispatcher
	queries    Queries
	prompts    Prompts
	identity   IdentitySession
	logger     *slog.Logger
}

func NewHandlers(
	dispatcher Dispatcher,
	queries Queries,
	prompts Prompts,
	identity IdentitySession,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		queries:    queries,
		prompts:    prompts,
		identity:   identity,
		logger:     logger,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/confirmations", h.CreateConfirmation)
	mux.HandleFunc("GET /v1/confirmations/{id}", h.GetConfirmation)
	mux.HandleFunc("GET /v1/host/prompts", h.ListPrompts)
	mux.HandleFunc("POST /v1/host/prompts/{id}/reply", h.ReplyPrompt)
	mux.HandleFunc("DELETE /v1/session/identity", h.InvalidateIdentity)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
