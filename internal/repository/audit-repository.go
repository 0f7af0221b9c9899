package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *domain.DecisionAudit) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.DecisionAudit, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry *domain.DecisionAudit) error {
	if entry == nil {
		return errors.New("nil audit entry")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]domain.DecisionAudit, error) {
	var out []domain.DecisionAudit
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	return out, nil
}
