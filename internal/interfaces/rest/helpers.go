package rest

import (
	"github.com/DanielPopoola/ficmart-confirmer/internal/api"
	"github.com/DanielPopoola/ficmart-confirmer/internal/application/services"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/infrastructure/hostbridge"
)

func ToAPIConfirmation(req *domain.PendingRequest) api.Confirmation {
	c := api.Confirmation{
		ID:          req.ID,
		Kind:        string(req.Kind),
		ResourceID:  req.ResourceID,
		RequestID:   req.RequestID,
		Amount:      req.Amount.String(),
		Currency:    req.Amount.Currency,
		Status:      string(req.Status),
		MaxAttempts: req.MaxAttempts,
		Attempts:    make([]api.PollAttempt, 0, len(req.Attempts)),
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
		CompletedAt: req.CompletedAt,
	}

	if req.IsTerminal() {
		outcome := services.OutcomeFrom(req)
		c.Guidance = string(outcome.Guidance)
		c.ErrorCode = outcome.ErrorCode
		c.Message = outcome.Message
	}

	for _, a := range req.Attempts {
		c.Attempts = append(c.Attempts, api.PollAttempt{
			AttemptNumber:  a.AttemptNumber,
			ObservedStatus: a.ObservedStatus,
			IsTerminal:     a.IsTerminal,
			Error:          a.Error,
			ObservedAt:     a.ObservedAt,
		})
	}

	if req.Settlement != nil {
		c.Settlement = string(*req.Settlement)
		c.SettlementReason = req.SettlementReason
	}

	return c
}

func ToAPIPrompts(prompts []hostbridge.Prompt) []api.Prompt {
	out := make([]api.Prompt, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, api.Prompt{
			ID:              p.ID,
			Kind:            string(p.Kind),
			RequestKind:     string(p.RequestKind),
			ServerRequestID: p.ServerRequestID,
			Payload:         p.Payload,
			CreatedAt:       p.CreatedAt,
		})
	}
	return out
}
