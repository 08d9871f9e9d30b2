package postgres

import (
	"time"
)

// RequestModel mirrors a pending_requests row. Amounts are stored in minor units.
type RequestModel struct {
	ID               string
	RequestID        string
	Kind             string
	ResourceID       string
	AmountMinor      int64
	Currency         string
	ConsentPayload   []byte
	Status           string
	ErrorCode        string
	FailReason       string
	MaxAttempts      int
	Settlement       *string
	SettlementReason string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	SettledAt        *time.Time
}

type PollAttemptModel struct {
	AttemptNumber  int
	ObservedStatus string
	IsTerminal     bool
	Error          string
	ObservedAt     time.Time
}
