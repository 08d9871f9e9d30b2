package services

import (
	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// Guidance is the one user-facing next step for a terminal request.
type Guidance string

const (
	GuidanceConfirmation             Guidance = "confirmation"
	GuidanceFailureExplanation       Guidance = "failure_explanation"
	GuidanceCancellationConfirmation Guidance = "cancellation_confirmation"
	GuidanceCheckBackLater           Guidance = "check_back_later"
)

// GuidanceFor returns "" for requests that are still active.
// A failed initiation whose effect is unknown is routed to check_back_later.
func GuidanceFor(status domain.RequestStatus, errorCode string) Guidance {
	switch status {
	case domain.StatusSuccess:
		return GuidanceConfirmation
	case domain.StatusCancelled:
		return GuidanceCancellationConfirmation
	case domain.StatusFailed:
		if errorCode == application.ErrCodeNetwork {
			return GuidanceCheckBackLater
		}
		return GuidanceFailureExplanation
	case domain.StatusUnconfirmed, domain.StatusExhausted:
		return GuidanceCheckBackLater
	}
	return ""
}

// Outcome is what the caller observes once a flow ends.
type Outcome struct {
	ID         string
	RequestID  string
	Kind       domain.Kind
	ResourceID string
	Status     domain.RequestStatus
	Guidance   Guidance
	ErrorCode  string
	Message    string
	Attempts   int
}

func OutcomeFrom(req *domain.PendingRequest) *Outcome {
	out := &Outcome{
		ID:         req.ID,
		RequestID:  req.RequestID,
		Kind:       req.Kind,
		ResourceID: req.ResourceID,
		Status:     req.Status,
		Guidance:   GuidanceFor(req.Status, req.ErrorCode),
		ErrorCode:  req.ErrorCode,
		Message:    req.FailReason,
		Attempts:   len(req.Attempts),
	}

	switch req.Status {
	case domain.StatusExhausted:
		exhausted := application.NewExhaustedError(len(req.Attempts))
		out.ErrorCode = exhausted.Code
		out.Message = exhausted.Message
	case domain.StatusFailed:
		if out.Message == "" {
			out.Message = "The request failed"
		}
	}
	return out
}
