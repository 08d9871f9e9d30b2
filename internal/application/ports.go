package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

// InitiateRequest is what a flow adapter sends to create a money movement.
type InitiateRequest struct {
	ResourceID string
	Amount     domain.Money
	Method     string
	PayType    string
	Identity   *domain.IdentityToken
}

// Initiation is the server's answer to a create call.
type Initiation struct {
	RequestID       string
	ConsentPayload  json.RawMessage
	ConsentRequired bool
}

// StatusReport is one status query result, already normalized by the adapter.
type StatusReport struct {
	RawStatus  string
	Settlement domain.SettlementStatus
	FailReason string
}

type CancelReply struct {
	Accepted bool
	Message  string
}

// StatusSource is the read side of a flow adapter.
type StatusSource interface {
	QueryStatus(ctx context.Context, requestID string) (*StatusReport, error)
}

// FlowAdapter hides the endpoint shape and status vocabulary of one request kind.
type FlowAdapter interface {
	StatusSource
	Kind() domain.Kind
	RequiresIdentity(method string) bool
	Initiate(ctx context.Context, req InitiateRequest) (*Initiation, error)
	Cancel(ctx context.Context, requestID string) (*CancelReply, error)
}

type ConsentOutcome string

const (
	ConsentApproved      ConsentOutcome = "approved"
	ConsentDeclined      ConsentOutcome = "declined"
	ConsentUserCancelled ConsentOutcome = "cancelled"
)

func (o ConsentOutcome) Valid() bool {
	return o == ConsentApproved || o == ConsentDeclined || o == ConsentUserCancelled
}

type ConsentRequest struct {
	ID              string
	ServerRequestID string
	Kind            domain.Kind
	Payload         json.RawMessage
}

// ConsentGate hands the consent payload to the host and blocks until the user decides.
type ConsentGate interface {
	RequestConsent(ctx context.Context, req ConsentRequest) (ConsentOutcome, error)
}

// IdentityResolver supplies the external identity token some flows need to initiate.
type IdentityResolver interface {
	Resolve(ctx context.Context) (domain.IdentityToken, error)
}

// RequestRepository is the port for persistence. Create enforces the
// at-most-one-active-request-per-resource invariant.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.PendingRequest) error
	Update(ctx context.Context, req *domain.PendingRequest) error
	AppendPollAttempt(ctx context.Context, id string, attempt domain.PollAttempt) error
	FindByID(ctx context.Context, id string) (*domain.PendingRequest, error)
	FindActiveByResource(ctx context.Context, kind domain.Kind, resourceID string) (*domain.PendingRequest, error)
	FindStale(ctx context.Context, updatedBefore time.Time, limit int) ([]*domain.PendingRequest, error)
	FindUnsettled(ctx context.Context, completedBefore time.Time, limit int) ([]*domain.PendingRequest, error)
}
