package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
	"github.com/jackc/pgx/v5"
)

const activeResourceIndex = "pending_requests_active_resource_idx"

const selectRequest = `
	SELECT id, request_id, kind, resource_id, amount_minor, currency, consent_payload,
	       status, error_code, fail_reason, max_attempts, settlement, settlement_reason,
	       created_at, updated_at, completed_at, settled_at
	FROM pending_requests`

// RequestRepository stores requests in pending_requests and their poll
// history in poll_attempts. The partial unique index on active
// (kind, resource_id) is the in-flight lock.
type RequestRepository struct {
	db *DB
}

func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.PendingRequest) error {
	query := `
		INSERT INTO pending_requests (
			id, request_id, kind, resource_id, amount_minor, currency, consent_payload,
			status, error_code, fail_reason, max_attempts, settlement, settlement_reason,
			created_at, updated_at, completed_at, settled_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	m := toDBModel(req)
	_, err := r.db.Pool.Exec(ctx, query,
		m.ID,
		m.RequestID,
		m.Kind,
		m.ResourceID,
		m.AmountMinor,
		m.Currency,
		m.ConsentPayload,
		m.Status,
		m.ErrorCode,
		m.FailReason,
		m.MaxAttempts,
		m.Settlement,
		m.SettlementReason,
		m.CreatedAt,
		m.UpdatedAt,
		m.CompletedAt,
		m.SettledAt,
	)
	if err != nil {
		if IsUniqueViolation(err, activeResourceIndex) {
			return domain.NewRequestInFlightError(req.Kind, req.ResourceID)
		}
		return fmt.Errorf("failed to create pending request: %w", err)
	}

	return nil
}

// Update writes the mutable fields. Poll attempts are only ever appended.
// A row that is already terminal only accepts writes that keep its status,
// so a stale snapshot can never move a closed request backwards.
func (r *RequestRepository) Update(ctx context.Context, req *domain.PendingRequest) error {
	query := `
		UPDATE pending_requests
		SET request_id = $1, consent_payload = $2, status = $3, error_code = $4,
		    fail_reason = $5, max_attempts = $6, settlement = $7, settlement_reason = $8,
		    updated_at = $9, completed_at = $10, settled_at = $11
		WHERE id = $12
		  AND (status IN ('REQUESTING', 'AWAITING_CONSENT', 'POLLING', 'CANCELLING') OR status = $3)
	`

	m := toDBModel(req)
	tag, err := r.db.Pool.Exec(ctx, query,
		m.RequestID,
		m.ConsentPayload,
		m.Status,
		m.ErrorCode,
		m.FailReason,
		m.MaxAttempts,
		m.Settlement,
		m.SettlementReason,
		m.UpdatedAt,
		m.CompletedAt,
		m.SettledAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pending request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.rejectedUpdate(ctx, req.ID)
	}

	return nil
}

// rejectedUpdate tells a missing row apart from one that is already closed.
func (r *RequestRepository) rejectedUpdate(ctx context.Context, id string) error {
	var stored string
	err := r.db.Pool.QueryRow(ctx, `SELECT status FROM pending_requests WHERE id = $1`, id).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewRequestNotFoundError(id)
	}
	if err != nil {
		return fmt.Errorf("failed to read pending request status: %w", err)
	}
	return domain.NewRequestClosedError(id, domain.RequestStatus(stored))
}

// AppendPollAttempt is idempotent per attempt number.
func (r *RequestRepository) AppendPollAttempt(ctx context.Context, id string, attempt domain.PollAttempt) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT true FROM pending_requests WHERE id = $1 FOR UPDATE`, id).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewRequestNotFoundError(id)
		}
		if err != nil {
			return fmt.Errorf("failed to lock pending request: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO poll_attempts (pending_request_id, attempt_number, observed_status, is_terminal, error, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (pending_request_id, attempt_number) DO NOTHING
		`, id, attempt.AttemptNumber, attempt.ObservedStatus, attempt.IsTerminal, attempt.Error, attempt.ObservedAt)
		if err != nil {
			return fmt.Errorf("failed to append poll attempt: %w", err)
		}
		return nil
	})
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.PendingRequest, error) {
	row := r.db.Pool.QueryRow(ctx, selectRequest+` WHERE id = $1`, id)
	return r.loadOne(ctx, row, id)
}

func (r *RequestRepository) FindActiveByResource(ctx context.Context, kind domain.Kind, resourceID string) (*domain.PendingRequest, error) {
	query := selectRequest + `
		WHERE kind = $1 AND resource_id = $2
		  AND status IN ('REQUESTING', 'AWAITING_CONSENT', 'POLLING', 'CANCELLING')`

	row := r.db.Pool.QueryRow(ctx, query, string(kind), resourceID)
	return r.loadOne(ctx, row, resourceID)
}

// FindStale returns active requests untouched since updatedBefore, oldest first.
func (r *RequestRepository) FindStale(ctx context.Context, updatedBefore time.Time, limit int) ([]*domain.PendingRequest, error) {
	query := selectRequest + `
		WHERE status IN ('REQUESTING', 'AWAITING_CONSENT', 'POLLING', 'CANCELLING')
		  AND updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2`

	return r.loadMany(ctx, query, updatedBefore, limit)
}

// FindUnsettled returns undetermined requests that still lack a late settlement.
func (r *RequestRepository) FindUnsettled(ctx context.Context, completedBefore time.Time, limit int) ([]*domain.PendingRequest, error) {
	query := selectRequest + `
		WHERE status IN ('UNCONFIRMED', 'EXHAUSTED')
		  AND settlement IS NULL
		  AND request_id <> ''
		  AND completed_at < $1
		ORDER BY updated_at ASC
		LIMIT $2`

	return r.loadMany(ctx, query, completedBefore, limit)
}

func (r *RequestRepository) loadOne(ctx context.Context, row pgx.Row, key string) (*domain.PendingRequest, error) {
	m, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewRequestNotFoundError(key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending request: %w", err)
	}

	attempts, err := r.attempts(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return toDomainModel(m, attempts), nil
}

func (r *RequestRepository) loadMany(ctx context.Context, query string, args ...any) ([]*domain.PendingRequest, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending requests: %w", err)
	}

	models, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RequestModel, error) {
		return scanRequest(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan pending requests: %w", err)
	}

	results := make([]*domain.PendingRequest, 0, len(models))
	for _, m := range models {
		attempts, err := r.attempts(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, toDomainModel(m, attempts))
	}
	return results, nil
}

func (r *RequestRepository) attempts(ctx context.Context, id string) ([]PollAttemptModel, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT attempt_number, observed_status, is_terminal, error, observed_at
		FROM poll_attempts
		WHERE pending_request_id = $1
		ORDER BY attempt_number ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query poll attempts: %w", err)
	}

	attempts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PollAttemptModel, error) {
		var a PollAttemptModel
		err := row.Scan(&a.AttemptNumber, &a.ObservedStatus, &a.IsTerminal, &a.Error, &a.ObservedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan poll attempts: %w", err)
	}
	return attempts, nil
}

func scanRequest(row pgx.Row) (RequestModel, error) {
	var m RequestModel
	err := row.Scan(
		&m.ID, &m.RequestID, &m.Kind, &m.ResourceID, &m.AmountMinor, &m.Currency, &m.ConsentPayload,
		&m.Status, &m.ErrorCode, &m.FailReason, &m.MaxAttempts, &m.Settlement, &m.SettlementReason,
		&m.CreatedAt, &m.UpdatedAt, &m.CompletedAt, &m.SettledAt,
	)
	return m, err
}
