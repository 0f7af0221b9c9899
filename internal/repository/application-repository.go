package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationFilter struct {
	Status *domain.ApplicationStatus
	Limit  int
	Offset int
}

type Decision struct {
	To         domain.ApplicationStatus
	ReviewerID string
	At         time.Time
	Note       *string
}

type statusCount struct {
	Status domain.ApplicationStatus
	Count  int64
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	FindByIDWithCredential(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	FindByEmail(ctx context.Context, email string) (*domain.Application, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)

	// MarkDecided moves a pending application to d.To. It reports false when the
	// application is missing or no longer pending, so exactly one caller wins.
	MarkDecided(ctx context.Context, id uuid.UUID, d Decision) (bool, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if app == nil {
		return errors.New("nil application")
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return apperr.Wrap(apperr.ErrDuplicate, "An application with this email already exists", err)
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.find(r.db.WithContext(ctx).Omit("password_hash").Where("id = ?", id))
}

func (r *applicationRepository) FindByIDWithCredential(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.find(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *applicationRepository) FindByEmail(ctx context.Context, email string) (*domain.Application, error) {
	return r.find(r.db.WithContext(ctx).Omit("password_hash").Where("email = ?", email))
}

func (r *applicationRepository) find(q *gorm.DB) (*domain.Application, error) {
	app := &domain.Application{}
	if err := q.First(app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "Application not found")
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count applications by email: %w", err)
	}
	return count > 0, nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Omit("password_hash")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var apps []domain.Application
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}

	out := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *applicationRepository) MarkDecided(ctx context.Context, id uuid.UUID, d Decision) (bool, error) {
	if !domain.ApplicationStatusPending.CanTransitionTo(d.To) {
		return false, fmt.Errorf("mark decided: %q is not a decision", d.To)
	}

	updates := map[string]any{
		"status":      d.To,
		"reviewed_by": d.ReviewerID,
		"reviewed_at": d.At,
		"updated_at":  d.At,
	}
	if d.Note != nil {
		updates["admin_notes"] = *d.Note
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ? AND status = ?", id, domain.ApplicationStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("mark application decided: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
