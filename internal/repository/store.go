package repository

import (
	"context"
	"fmt"

	"github.com/SundayYogurt/application_service/internal/domain"
	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Applications ApplicationRepository
	Accounts     AccountRepository
	Outbox       OutboxRepository
	Audits       AuditRepository
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Applications: NewApplicationRepository(db),
		Accounts:     NewAccountRepository(db),
		Outbox:       NewOutboxRepository(db),
		Audits:       NewAuditRepository(db),
	}
}

type Store struct {
	db    *gorm.DB
	repos Repositories
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, repos: newRepositories(db)}
}

func (s *Store) Repositories() Repositories { return s.repos }

// WithinTx runs fn in one transaction. Any error from fn rolls back every write.
func (s *Store) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Models lists every table owned by this service.
func Models() []any {
	return []any{
		&domain.Application{},
		&domain.Account{},
		&domain.NotificationOutbox{},
		&domain.DecisionAudit{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
