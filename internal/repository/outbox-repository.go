package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *domain.NotificationOutbox) error

	// ClaimDue leases up to limit pending rows whose next attempt is due. Each
	// claimed row has Attempts incremented and NextAttemptAt pushed to leaseUntil,
	// so a crashed worker's rows become due again after the lease.
	ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]domain.NotificationOutbox, error)

	// MarkSent, MarkRetry and MarkFailed settle a claimed row. attempt is the
	// Attempts value the caller claimed; ErrLeaseLost means another worker has
	// reclaimed the row since and nothing was written.
	MarkSent(ctx context.Context, id uuid.UUID, attempt int, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempt int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uuid.UUID, attempt int, lastErr string) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.NotificationOutbox, error)
}

var ErrLeaseLost = errors.New("outbox lease lost")

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg *domain.NotificationOutbox) error {
	if msg == nil {
		return errors.New("nil outbox message")
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.Status == "" {
		msg.Status = domain.OutboxStatusPending
	}
	if msg.NextAttemptAt.IsZero() {
		msg.NextAttemptAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

func (r *outboxRepository) ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]domain.NotificationOutbox, error) {
	if limit <= 0 {
		limit = 10
	}

	var due []domain.NotificationOutbox
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", domain.OutboxStatusPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&due).Error
	if err != nil {
		return nil, fmt.Errorf("find due notifications: %w", err)
	}

	claimed := make([]domain.NotificationOutbox, 0, len(due))
	for _, msg := range due {
		// attempts doubles as a version: only one worker moves it forward
		res := r.db.WithContext(ctx).
			Model(&domain.NotificationOutbox{}).
			Where("id = ? AND status = ? AND attempts = ?", msg.ID, domain.OutboxStatusPending, msg.Attempts).
			Updates(map[string]any{
				"attempts":        msg.Attempts + 1,
				"next_attempt_at": leaseUntil,
				"updated_at":      now,
			})
		if res.Error != nil {
			return claimed, fmt.Errorf("claim notification: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		msg.Attempts++
		msg.NextAttemptAt = leaseUntil
		claimed = append(claimed, msg)
	}
	return claimed, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID, attempt int, at time.Time) error {
	return r.settle(ctx, id, attempt, map[string]any{
		"status":     domain.OutboxStatusSent,
		"sent_at":    at,
		"last_error": nil,
		"updated_at": at,
	})
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempt int, next time.Time, lastErr string) error {
	return r.settle(ctx, id, attempt, map[string]any{
		"next_attempt_at": next,
		"last_error":      lastErr,
		"updated_at":      time.Now(),
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempt int, lastErr string) error {
	return r.settle(ctx, id, attempt, map[string]any{
		"status":     domain.OutboxStatusFailed,
		"last_error": lastErr,
		"updated_at": time.Now(),
	})
}

func (r *outboxRepository) settle(ctx context.Context, id uuid.UUID, attempt int, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.NotificationOutbox{}).
		Where("id = ? AND status = ? AND attempts = ?", id, domain.OutboxStatusPending, attempt).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update notification %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeaseLost
	}
	return nil
}

func (r *outboxRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.NotificationOutbox, error) {
	var out []domain.NotificationOutbox
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}
