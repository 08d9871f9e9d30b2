package hostbridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/DanielPopoola/ficmart-confirmer/internal/observability"
	"github.com/google/uuid"
)

type PromptKind string

const (
	PromptConsent   PromptKind = "consent"
	PromptLoginCode PromptKind = "login_code"
)

var (
	ErrPromptNotFound = errors.New("prompt not found or already answered")
	ErrInvalidReply   = errors.New("reply does not match the prompt kind")
)

// Prompt is a question parked for the host. Payload is passed through verbatim.
type Prompt struct {
	ID              string          `json:"id"`
	Kind            PromptKind      `json:"kind"`
	RequestKind     domain.Kind     `json:"request_kind,omitempty"`
	ServerRequestID string          `json:"server_request_id,omitempty"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Reply carries Outcome for consent prompts and Code for login prompts.
type Reply struct {
	Outcome string `json:"outcome,omitempty"`
	Code    string `json:"code,omitempty"`
}

type waiter struct {
	prompt Prompt
	reply  chan Reply
}

// Bridge parks prompts until the host answers them. There is no timeout;
// only the asking context releases a waiter early.
type Bridge struct {
	mu      sync.Mutex
	pending map[string]*waiter

	validate func(Prompt, Reply) error
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func NewBridge(metrics *observability.Metrics, logger *slog.Logger) *Bridge {
	return &Bridge{
		pending:  make(map[string]*waiter),
		validate: validateReply,
		metrics:  metrics,
		logger:   logger,
	}
}

// Ask parks p and blocks until Reply is called for it or ctx ends.
func (b *Bridge) Ask(ctx context.Context, p Prompt) (Reply, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	w := &waiter{prompt: p, reply: make(chan Reply, 1)}

	b.mu.Lock()
	if _, exists := b.pending[p.ID]; exists {
		b.mu.Unlock()
		return Reply{}, errors.New("prompt already pending: " + p.ID)
	}
	b.pending[p.ID] = w
	b.metrics.SetPendingPrompts(len(b.pending))
	b.mu.Unlock()

	b.logger.Info("prompt waiting for host", "prompt_id", p.ID, "prompt_kind", p.Kind)

	defer b.forget(p.ID)

	select {
	case r := <-w.reply:
		return r, nil
	case <-ctx.Done():
		b.logger.Warn("prompt abandoned", "prompt_id", p.ID, "error", ctx.Err())
		return Reply{}, ctx.Err()
	}
}

// Pending lists prompts oldest first.
func (b *Bridge) Pending() []Prompt {
	b.mu.Lock()
	prompts := make([]Prompt, 0, len(b.pending))
	for _, w := range b.pending {
		prompts = append(prompts, w.prompt)
	}
	b.mu.Unlock()

	slices.SortFunc(prompts, func(a, c Prompt) int {
		return a.CreatedAt.Compare(c.CreatedAt)
	})
	return prompts
}

// Reply answers a pending prompt. Each prompt accepts exactly one reply.
func (b *Bridge) Reply(id string, r Reply) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.pending[id]
	if !ok {
		return ErrPromptNotFound
	}
	if err := b.validate(w.prompt, r); err != nil {
		return err
	}

	delete(b.pending, id)
	b.metrics.SetPendingPrompts(len(b.pending))
	w.reply <- r
	return nil
}

func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.metrics.SetPendingPrompts(len(b.pending))
	b.mu.Unlock()
}

func validateReply(p Prompt, r Reply) error {
	switch p.Kind {
	case PromptConsent:
		if !slices.Contains([]string{"approved", "declined", "cancelled"}, r.Outcome) {
			return ErrInvalidReply
		}
	case PromptLoginCode:
		if r.Code == "" && r.Outcome != "cancelled" {
			return ErrInvalidReply
		}
	}
	return nil
}
