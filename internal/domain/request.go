// Package domain encodes a pending money-movement request and its confirmation lifecycle
package domain

import (
	"slices"
	"strings"
	"time"
)

// Kind identifies which money-movement flow a request belongs to
type Kind string

const (
	KindPayment    Kind = "PAYMENT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

func (k Kind) Valid() bool {
	return k == KindPayment || k == KindWithdrawal
}

// ParseKind accepts the lower or upper case spelling of a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", NewInvalidKindError(s)
	}
	return k, nil
}

// RequestStatus represents the current state of a pending request in its lifecycle
type RequestStatus string

const (
	StatusRequesting      RequestStatus = "REQUESTING"
	StatusAwaitingConsent RequestStatus = "AWAITING_CONSENT"
	StatusPolling         RequestStatus = "POLLING"
	StatusCancelling      RequestStatus = "CANCELLING"
	StatusSuccess         RequestStatus = "SUCCESS"
	StatusFailed          RequestStatus = "FAILED"
	StatusCancelled       RequestStatus = "CANCELLED"
	StatusUnconfirmed     RequestStatus = "UNCONFIRMED"
	StatusExhausted       RequestStatus = "EXHAUSTED"
)

// ActiveStatuses are the statuses that hold the per-resource in-flight lock.
var ActiveStatuses = []RequestStatus{
	StatusRequesting,
	StatusAwaitingConsent,
	StatusPolling,
	StatusCancelling,
}

func (s RequestStatus) IsActive() bool {
	return slices.Contains(ActiveStatuses, s)
}

func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCancelled, StatusUnconfirmed, StatusExhausted:
		return true
	default:
		return false
	}
}

// IsUndetermined reports whether the outcome could not be learned in this session.
func (s RequestStatus) IsUndetermined() bool {
	return s == StatusUnconfirmed || s == StatusExhausted
}

// SettlementStatus is the normalized server-side outcome of a money movement
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "PENDING"
	SettlementSuccess   SettlementStatus = "SUCCESS"
	SettlementFailed    SettlementStatus = "FAILED"
	SettlementCancelled SettlementStatus = "CANCELLED"
)

func (s SettlementStatus) IsTerminal() bool {
	return s == SettlementSuccess || s == SettlementFailed || s == SettlementCancelled
}

// PollAttempt is one round of status polling
type PollAttempt struct {
	AttemptNumber  int
	ObservedStatus string
	IsTerminal     bool
	Error          string
	ObservedAt     time.Time
}

// PendingRequest is one money-movement attempt
type PendingRequest struct {
	ID         string
	RequestID  string
	Kind       Kind
	ResourceID string
	Amount     Money

	ConsentPayload []byte
	Status         RequestStatus
	ErrorCode      string
	FailReason     string

	Attempts    []PollAttempt
	MaxAttempts int

	Settlement       *SettlementStatus
	SettlementReason string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	SettledAt   *time.Time
}

func NewPendingRequest(id string, kind Kind, resourceID string, amount Money, now time.Time) (*PendingRequest, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("request ID")
	}
	if !kind.Valid() {
		return nil, NewInvalidKindError(string(kind))
	}
	if strings.TrimSpace(resourceID) == "" {
		return nil, NewMissingRequiredFieldError("resource ID")
	}

	return &PendingRequest{
		ID:         id,
		Kind:       kind,
		ResourceID: resourceID,
		Amount:     amount,
		Status:     StatusRequesting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// MarkInitiated records the server-assigned identifier and moves on to consent,
// or straight to polling when the server says no consent step is needed.
func (r *PendingRequest) MarkInitiated(requestID string, consentPayload []byte, consentRequired bool, now time.Time) error {
	if requestID == "" {
		return NewMissingRequiredFieldError("server request ID")
	}
	target := StatusAwaitingConsent
	if !consentRequired {
		target = StatusPolling
	}
	if err := r.transition(target, now); err != nil {
		return err
	}
	r.RequestID = requestID
	r.ConsentPayload = consentPayload
	return nil
}

func (r *PendingRequest) MarkCancelling(now time.Time) error {
	return r.transition(StatusCancelling, now)
}

// MarkPolling starts the status polling phase with a bounded attempt budget.
func (r *PendingRequest) MarkPolling(maxAttempts int, now time.Time) error {
	if r.Status != StatusPolling {
		if err := r.transition(StatusPolling, now); err != nil {
			return err
		}
	}
	r.MaxAttempts = maxAttempts
	return nil
}

// Fail moves the request to FAILED with a diagnostic code and reason.
func (r *PendingRequest) Fail(code, reason string, now time.Time) error {
	if err := r.transition(StatusFailed, now); err != nil {
		return err
	}
	r.ErrorCode = code
	r.FailReason = reason
	return nil
}

// Resolve applies a terminal settlement learned from the server.
func (r *PendingRequest) Resolve(settlement SettlementStatus, reason string, now time.Time) error {
	var target RequestStatus
	switch settlement {
	case SettlementSuccess:
		target = StatusSuccess
	case SettlementFailed:
		target = StatusFailed
	case SettlementCancelled:
		target = StatusCancelled
	default:
		return NewInvalidTransitionError(r.Status, RequestStatus(settlement))
	}
	if err := r.transition(target, now); err != nil {
		return err
	}
	r.FailReason = reason
	return nil
}

func (r *PendingRequest) MarkCancelled(now time.Time) error {
	return r.transition(StatusCancelled, now)
}

func (r *PendingRequest) MarkExhausted(now time.Time) error {
	return r.transition(StatusExhausted, now)
}

// MarkUnconfirmed records that the true server-side effect is unknown.
func (r *PendingRequest) MarkUnconfirmed(code, reason string, now time.Time) error {
	if err := r.transition(StatusUnconfirmed, now); err != nil {
		return err
	}
	r.ErrorCode = code
	r.FailReason = reason
	return nil
}

// RecordAttempt appends a poll attempt. Attempts are numbered from 1 and
// bounded by MaxAttempts.
func (r *PendingRequest) RecordAttempt(a PollAttempt) error {
	if r.Status != StatusPolling {
		return NewInvalidStateError(r.Status, StatusPolling)
	}
	if r.MaxAttempts > 0 && len(r.Attempts) >= r.MaxAttempts {
		return NewAttemptLimitError(r.MaxAttempts)
	}
	if a.AttemptNumber != len(r.Attempts)+1 {
		return NewAttemptOrderError(len(r.Attempts)+1, a.AttemptNumber)
	}
	r.Attempts = append(r.Attempts, a)
	return nil
}

// Settle records an outcome learned out-of-band for a request whose session
// ended without one. The lifecycle status itself is left untouched.
func (r *PendingRequest) Settle(settlement SettlementStatus, reason string, now time.Time) error {
	if !r.Status.IsUndetermined() {
		return NewInvalidStateError(r.Status, StatusExhausted)
	}
	if r.Settlement != nil {
		return NewAlreadySettledError(r.ID)
	}
	if !settlement.IsTerminal() {
		return NewInvalidSettlementError(settlement)
	}
	r.Settlement = &settlement
	r.SettlementReason = reason
	r.SettledAt = &now
	return nil
}

func (r *PendingRequest) IsTerminal() bool {
	return r.Status.IsTerminal()
}

func (r *PendingRequest) transition(target RequestStatus, now time.Time) error {
	if err := r.canTransitionTo(target); err != nil {
		return err
	}
	r.Status = target
	r.UpdatedAt = now
	if target.IsTerminal() {
		r.CompletedAt = &now
	}
	return nil
}

// Every edge moves forward, so each status is entered at most once.
// UNCONFIRMED is reachable from any active status for requests abandoned mid-flow.
func (r *PendingRequest) canTransitionTo(target RequestStatus) error {
	switch r.Status {
	case StatusRequesting:
		return r.allow(target, StatusAwaitingConsent, StatusPolling, StatusFailed, StatusUnconfirmed)
	case StatusAwaitingConsent:
		return r.allow(target, StatusPolling, StatusCancelling, StatusFailed, StatusUnconfirmed)
	case StatusCancelling:
		return r.allow(target, StatusCancelled, StatusPolling, StatusUnconfirmed)
	case StatusPolling:
		return r.allow(target, StatusSuccess, StatusFailed, StatusCancelled, StatusExhausted, StatusUnconfirmed)
	}
	return NewInvalidTransitionError(r.Status, target)
}

func (r *PendingRequest) allow(target RequestStatus, allowed ...RequestStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(r.Status, target)
}
