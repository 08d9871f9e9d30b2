package handlers

import (
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
	"github.com/DanielPopoola/ficmart-confirmer/internal/interfaces/rest"
)

func (h *Handlers) ListPrompts(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, api.PromptListResponse{
		Success: true,
		Data:    rest.ToAPIPrompts(h.prompts.Pending()),
	}, h.logger)
}

// ReplyPrompt delivers the host's answer to the flow waiting on it.
func (h *Handlers) ReplyPrompt(w http.ResponseWriter, r *http.Request) {
	var body api.PromptReply
	if err := decodeBody(w, r, &body); err != nil {
		rest.WriteError(w, application.NewValidationError(err), h.logger)
		return
	}

	err := h.prompts.Reply(r.PathValue("id"), hostbridge.Reply{Outcome: body.Outcome, Code: body.Code})
	switch {
	case errors.Is(err, hostbridge.ErrPromptNotFound):
		rest.WriteError(w, application.NewNotFoundError(err), h.logger)
		return
	case errors.Is(err, hostbridge.ErrInvalidReply):
		rest.WriteError(w, application.NewValidationError(err), h.logger)
		return
	case err != nil:
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InvalidateIdentity drops the cached identity token, e.g. after logout.
func (h *Handlers) InvalidateIdentity(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Invalidate(r.Context()); err != nil {
		rest.WriteError(w, application.NewInternalError(err), h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
