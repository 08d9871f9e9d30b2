// Package memory is the single-process storage driver. It enforces the same
// per-resource lock as the postgres driver.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

type RequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.PendingRequest
	active   map[string]string

	CreateFn func(ctx context.Context, req *domain.PendingRequest) error
	UpdateFn func(ctx context.Context, req *domain.PendingRequest) error
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{
		requests: make(map[string]*domain.PendingRequest),
		active:   make(map[string]string),
	}
}

func resourceKey(kind domain.Kind, resourceID string) string {
	return string(kind) + "/" + resourceID
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.PendingRequest) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, req)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := resourceKey(req.Kind, req.ResourceID)
	if req.Status.IsActive() {
		if _, held := r.active[key]; held {
			return domain.NewRequestInFlightError(req.Kind, req.ResourceID)
		}
		r.active[key] = req.ID
	}
	r.requests[req.ID] = clone(req)
	return nil
}

func (r *RequestRepository) Update(ctx context.Context, req *domain.PendingRequest) error {
	if r.UpdateFn != nil {
		return r.UpdateFn(ctx, req)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.requests[req.ID]
	if !ok {
		return domain.NewRequestNotFoundError(req.ID)
	}
	if existing.Status.IsTerminal() && existing.Status != req.Status {
		return domain.NewRequestClosedError(req.ID, existing.Status)
	}

	updated := clone(req)
	// Attempts are owned by AppendPollAttempt.
	updated.Attempts = existing.Attempts
	r.requests[req.ID] = updated

	key := resourceKey(req.Kind, req.ResourceID)
	if !req.Status.IsActive() && r.active[key] == req.ID {
		delete(r.active, key)
	}
	return nil
}

func (r *RequestRepository) AppendPollAttempt(ctx context.Context, id string, attempt domain.PollAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.requests[id]
	if !ok {
		return domain.NewRequestNotFoundError(id)
	}
	for _, a := range existing.Attempts {
		if a.AttemptNumber == attempt.AttemptNumber {
			return nil
		}
	}
	existing.Attempts = append(existing.Attempts, attempt)
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.PendingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewRequestNotFoundError(id)
	}
	return clone(req), nil
}

func (r *RequestRepository) FindActiveByResource(ctx context.Context, kind domain.Kind, resourceID string) (*domain.PendingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[resourceKey(kind, resourceID)]
	if !ok {
		return nil, domain.NewRequestNotFoundError(resourceID)
	}
	return clone(r.requests[id]), nil
}

func (r *RequestRepository) FindStale(ctx context.Context, updatedBefore time.Time, limit int) ([]*domain.PendingRequest, error) {
	return r.filter(limit, func(req *domain.PendingRequest) bool {
		return req.Status.IsActive() && req.UpdatedAt.Before(updatedBefore)
	}), nil
}

func (r *RequestRepository) FindUnsettled(ctx context.Context, completedBefore time.Time, limit int) ([]*domain.PendingRequest, error) {
	return r.filter(limit, func(req *domain.PendingRequest) bool {
		return req.Status.IsUndetermined() &&
			req.Settlement == nil &&
			req.RequestID != "" &&
			req.CompletedAt != nil &&
			req.CompletedAt.Before(completedBefore)
	}), nil
}

func (r *RequestRepository) filter(limit int, keep func(*domain.PendingRequest) bool) []*domain.PendingRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.PendingRequest
	for _, req := range r.requests {
		if keep(req) {
			out = append(out, clone(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func clone(req *domain.PendingRequest) *domain.PendingRequest {
	c := *req
	c.ConsentPayload = slices.Clone(req.ConsentPayload)
	c.Attempts = slices.Clone(req.Attempts)
	if req.Settlement != nil {
		s := *req.Settlement
		c.Settlement = &s
	}
	if req.CompletedAt != nil {
		t := *req.CompletedAt
		c.CompletedAt = &t
	}
	if req.SettledAt != nil {
		t := *req.SettledAt
		c.SettledAt = &t
	}
	return &c
}
