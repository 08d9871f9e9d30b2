package api

import (
	"encoding/json"
	"time"
)

type ConfirmationRequest struct {
	Kind       string  `json:"kind"`
	ResourceID string  `json:"resource_id"`
	Amount     string  `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
	Ceiling    *string `json:"ceiling,omitempty"`
	Method     string  `json:"method,omitempty"`
	PayType    string  `json:"pay_type,omitempty"`
}

type PollAttempt struct {
	AttemptNumber  int       `json:"attempt_number"`
	ObservedStatus string    `json:"observed_status"`
	IsTerminal     bool      `json:"is_terminal"`
	Error          string    `json:"error,omitempty"`
	ObservedAt     time.Time `json:"observed_at"`
}

type Confirmation struct {
	ID               string        `json:"id"`
	Kind             string        `json:"kind"`
	ResourceID       string        `json:"resource_id"`
	RequestID        string        `json:"request_id,omitempty"`
	Amount           string        `json:"amount"`
	Currency         string        `json:"currency"`
	Status           string        `json:"status"`
	Guidance         string        `json:"guidance,omitempty"`
	ErrorCode        string        `json:"error_code,omitempty"`
	Message          string        `json:"message,omitempty"`
	MaxAttempts      int           `json:"max_attempts,omitempty"`
	Attempts         []PollAttempt `json:"attempts"`
	Settlement       string        `json:"settlement,omitempty"`
	SettlementReason string        `json:"settlement_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

type ConfirmationResponse struct {
	Success bool         `json:"success"`
	Data    Confirmation `json:"data"`
}

type Prompt struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	RequestKind     string          `json:"request_kind,omitempty"`
	ServerRequestID string          `json:"server_request_id,omitempty"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PromptListResponse struct {
	Success bool     `json:"success"`
	Data    []Prompt `json:"data"`
}

type PromptReply struct {
	Outcome string `json:"outcome,omitempty"`
	Code    string `json:"code,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
