package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, acc *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, acc *domain.Account) error {
	if acc == nil {
		return errors.New("nil account")
	}
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(acc).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return apperr.Wrap(apperr.ErrDuplicate, "User already exists", err)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *accountRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*domain.Account, error) {
	return r.first(r.db.WithContext(ctx).Where("application_id = ?", applicationID))
}

func (r *accountRepository) first(q *gorm.DB) (*domain.Account, error) {
	acc := &domain.Account{}
	if err := q.First(acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count accounts by email: %w", err)
	}
	return count > 0, nil
}
