package services

import (
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/shopspring/decimal"
)

type ConfirmCommand struct {
	Kind       domain.Kind
	ResourceID string
	Amount     decimal.Decimal
	Currency   string
	// Ceiling is the caller's upper bound, e.g. the available balance.
	Ceiling *decimal.Decimal
	Method  string
	PayType string
}

// PollPolicy bounds the polling phase; it is the only timeout the flow has.
type PollPolicy struct {
	Interval     time.Duration
	MaxAttempts  int
	InitialDelay time.Duration
}

type FlowPolicy struct {
	Poll           PollPolicy
	MinAmount      decimal.Decimal
	DefaultMethod  string
	DefaultPayType string
}

// Flow binds a kind's adapter to its policy.
type Flow struct {
	Adapter application.FlowAdapter
	Policy  FlowPolicy
}
