package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitavet/vitavet-api/internal/model"
	"github.com/vitavet/vitavet-api/internal/repository"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.EventType, event.Payload,
		event.Status, event.RetryCount, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// GetPendingEvents locks the returned batch so concurrent workers do not
// publish the same event twice.
func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count,
			   created_at, processed_at
		FROM outbox_events
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	var events []*model.OutboxEvent
	err := r.db.SelectContext(ctx, &events, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, processed_at = $3,
			retry_count = retry_count + CASE WHEN $1 = 'FAILED' THEN 1 ELSE 0 END
		WHERE id = $4
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, status, errMsg, &now, id)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	return nil
}
