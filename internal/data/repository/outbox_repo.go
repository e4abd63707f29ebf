package repository

import (
	"context"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OutboxRepository interface {
	Create(ctx context.Context, msg *entity.OutboxMessage) error
	FetchPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error)
	FetchRetryable(ctx context.Context, limit int) ([]*entity.OutboxMessage, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error)
}

type outboxRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOutboxRepository(db database.Querier, log *zap.Logger) OutboxRepository {
	return &outboxRepository{
		db:  db,
		log: log.With(zap.String("repository", "outbox")),
	}
}

const outboxColumns = `id, aggregate_type, aggregate_id, event_type, recipient_id, payload, status,
	retry_count, max_retries, last_error, created_at, published_at`

func (r *outboxRepository) Create(ctx context.Context, msg *entity.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (id, aggregate_type, aggregate_id, event_type, recipient_id,
		                             payload, status, retry_count, max_retries, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.Recipient,
		msg.Payload,
		msg.Status,
		msg.RetryCount,
		msg.MaxRetries,
		msg.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create outbox message",
			zap.Error(err),
			zap.String("event_type", msg.EventType),
			zap.String("aggregate_id", msg.AggregateID.String()),
		)
		return fmt.Errorf("create outbox message %s: %w", msg.EventType, err)
	}

	return nil
}

func (r *outboxRepository) fetch(ctx context.Context, where string, limit int) ([]*entity.OutboxMessage, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_messages
		WHERE ` + where + `
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to fetch outbox messages", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("fetch outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.OutboxMessage
	for rows.Next() {
		var m entity.OutboxMessage
		err := rows.Scan(
			&m.ID,
			&m.AggregateType,
			&m.AggregateID,
			&m.EventType,
			&m.Recipient,
			&m.Payload,
			&m.Status,
			&m.RetryCount,
			&m.MaxRetries,
			&m.LastError,
			&m.CreatedAt,
			&m.PublishedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan outbox row", zap.Error(err))
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}

	return messages, nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	return r.fetch(ctx, "status = 'pending'", limit)
}

func (r *outboxRepository) FetchRetryable(ctx context.Context, limit int) ([]*entity.OutboxMessage, error) {
	return r.fetch(ctx, "status = 'failed' AND retry_count < max_retries", limit)
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE outbox_messages SET status = 'published', published_at = $2, last_error = NULL WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to mark outbox message published", zap.Error(err), zap.String("message_id", id.String()))
		return fmt.Errorf("mark outbox message %s published: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE outbox_messages
		SET status = 'failed', retry_count = retry_count + 1, last_error = $2
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, reason)
	if err != nil {
		r.log.Error("Failed to mark outbox message failed", zap.Error(err), zap.String("message_id", id.String()))
		return fmt.Errorf("mark outbox message %s failed: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *outboxRepository) DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM outbox_messages WHERE status = 'published' AND published_at < $1`, before)
	if err != nil {
		r.log.Error("Failed to clean outbox", zap.Error(err), zap.Time("before", before))
		return 0, fmt.Errorf("delete published outbox messages: %w", err)
	}

	return result.RowsAffected(), nil
}
