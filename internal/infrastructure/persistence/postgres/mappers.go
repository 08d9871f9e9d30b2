package postgres

import (
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/shopspring/decimal"
)

// toDomainModel maps a row and its attempts back to a domain request.
func toDomainModel(m RequestModel, attempts []PollAttemptModel) *domain.PendingRequest {
	req := &domain.PendingRequest{
		ID:         m.ID,
		RequestID:  m.RequestID,
		Kind:       domain.Kind(m.Kind),
		ResourceID: m.ResourceID,
		Amount: domain.Money{
			Amount:   decimal.New(m.AmountMinor, -domain.MinorUnitPlaces),
			Currency: m.Currency,
		},
		ConsentPayload:   m.ConsentPayload,
		Status:           domain.RequestStatus(m.Status),
		ErrorCode:        m.ErrorCode,
		FailReason:       m.FailReason,
		MaxAttempts:      m.MaxAttempts,
		SettlementReason: m.SettlementReason,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      m.CompletedAt,
		SettledAt:        m.SettledAt,
	}
	if m.Settlement != nil {
		s := domain.SettlementStatus(*m.Settlement)
		req.Settlement = &s
	}
	for _, a := range attempts {
		req.Attempts = append(req.Attempts, domain.PollAttempt{
			AttemptNumber:  a.AttemptNumber,
			ObservedStatus: a.ObservedStatus,
			IsTerminal:     a.IsTerminal,
			Error:          a.Error,
			ObservedAt:     a.ObservedAt,
		})
	}
	return req
}

// toDBModel maps a domain request to its row; attempts are written separately.
func toDBModel(r *domain.PendingRequest) RequestModel {
	m := RequestModel{
		ID:               r.ID,
		RequestID:        r.RequestID,
		Kind:             string(r.Kind),
		ResourceID:       r.ResourceID,
		AmountMinor:      r.Amount.MinorUnits(),
		Currency:         r.Amount.Currency,
		ConsentPayload:   r.ConsentPayload,
		Status:           string(r.Status),
		ErrorCode:        r.ErrorCode,
		FailReason:       r.FailReason,
		MaxAttempts:      r.MaxAttempts,
		SettlementReason: r.SettlementReason,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		CompletedAt:      r.CompletedAt,
		SettledAt:        r.SettledAt,
	}
	if r.Settlement != nil {
		s := string(*r.Settlement)
		m.Settlement = &s
	}
	return m
}
