package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/SundayYogurt/application_service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transactor is implemented by repository.Store.
type Transactor interface {
	Repositories() repository.Repositories
	WithinTx(ctx context.Context, fn func(repository.Repositories) error) error
}

// Kicker wakes the notification relay once a decision has committed.
type Kicker interface {
	Kick()
}

type DecisionService interface {
	List(ctx context.Context, query dto.ListApplicationsQuery) ([]dto.ApplicationResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ApplicationResponse, error)
	Approve(ctx context.Context, id uuid.UUID, reviewer dto.Reviewer, meta dto.DecisionMeta) (*dto.AccountSummary, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer dto.Reviewer, input dto.RejectRequest, meta dto.DecisionMeta) error
}

type decisionService struct {
	store  Transactor
	guard  storageGuard
	kicker Kicker
	opts   Options
	log    *zap.Logger
}

func NewDecisionService(store Transactor, health interfaces.HealthChecker, kicker Kicker, opts Options) DecisionService {
	opts = opts.withDefaults()
	return &decisionService{
		store:  store,
		guard:  storageGuard{health: health},
		kicker: kicker,
		opts:   opts,
		log:    opts.Logger.Named("decision"),
	}
}

const maxReasonLength = 500

func (s *decisionService) List(ctx context.Context, query dto.ListApplicationsQuery) ([]dto.ApplicationResponse, error) {
	filter := repository.ApplicationFilter{Limit: query.Limit, Offset: query.Offset}
	if status := strings.ToLower(strings.TrimSpace(query.Status)); status != "" {
		st := domain.ApplicationStatus(status)
		if !st.Valid() {
			verr := apperr.NewValidationError()
			verr.Add("status", "status must be one of: pending, approved, rejected")
			return nil, verr
		}
		filter.Status = &st
	}

	apps, err := s.store.Repositories().Applications.List(ctx, filter)
	if err != nil {
		return nil, s.guard.classify(ctx, err)
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return out, nil
}

func (s *decisionService) Get(ctx context.Context, id uuid.UUID) (*dto.ApplicationResponse, error) {
	app, err := s.store.Repositories().Applications.FindByID(ctx, id)
	if err != nil {
		return nil, s.guard.classify(ctx, err)
	}
	resp := toApplicationResponse(app)
	return &resp, nil
}

// Approve decides a pending application and provisions its account. The status
// change, the account, the outbox row and the audit row commit together or not at
// all; exactly one of several concurrent callers wins.
func (s *decisionService) Approve(ctx context.Context, id uuid.UUID, reviewer dto.Reviewer, meta dto.DecisionMeta) (*dto.AccountSummary, error) {
	if strings.TrimSpace(reviewer.ID) == "" {
		return nil, apperr.New(apperr.ErrUnauthorized, "Not authorized")
	}
	if err := s.guard.preflight(ctx); err != nil {
		return nil, err
	}

	var summary *dto.AccountSummary
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		app, err := r.Applications.FindByIDWithCredential(ctx, id)
		if err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(domain.ApplicationStatusApproved) {
			return apperr.New(apperr.ErrInvalidTransition, msgAlreadyProcessed)
		}

		now := s.opts.Now()
		applied, err := r.Applications.MarkDecided(ctx, id, repository.Decision{
			To:         domain.ApplicationStatusApproved,
			ReviewerID: reviewer.ID,
			At:         now,
		})
		if err != nil {
			return err
		}
		if !applied {
			return apperr.New(apperr.ErrInvalidTransition, msgAlreadyProcessed)
		}

		exists, err := r.Accounts.ExistsByEmail(ctx, app.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.New(apperr.ErrInvalidTransition, "An account already exists for this email")
		}

		app.Status = domain.ApplicationStatusApproved
		app.ReviewedBy = &reviewer.ID
		app.ReviewedAt = &now
		acc, err := domain.NewAccountFromApplication(app, uuid.New(), now)
		if err != nil {
			return err
		}
		if err := r.Accounts.Create(ctx, acc); err != nil {
			if errors.Is(err, apperr.ErrDuplicate) {
				return apperr.New(apperr.ErrInvalidTransition, "An account already exists for this email")
			}
			return err
		}

		if err := r.Outbox.Enqueue(ctx, &domain.NotificationOutbox{
			ApplicationID: app.ID,
			Kind:          domain.NotificationApproved,
			Recipient:     app.Email,
			ApplicantName: app.Name,
			NextAttemptAt: now,
		}); err != nil {
			return err
		}

		if err := r.Audits.Record(ctx, &domain.DecisionAudit{
			ActorID:       reviewer.ID,
			Action:        domain.AuditActionApprove,
			ApplicationID: app.ID,
			PreviousState: domain.ApplicationStatusPending,
			NewState:      domain.ApplicationStatusApproved,
			AccountID:     &acc.ID,
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		summary = &dto.AccountSummary{
			ID:      acc.ID,
			Name:    acc.Name,
			Email:   acc.Email,
			Purpose: string(acc.Purpose),
		}
		return nil
	})
	if err != nil {
		s.log.Info("approve refused",
			zap.String("application_id", id.String()),
			zap.String("reviewer_id", reviewer.ID),
			zap.Error(err),
		)
		return nil, s.guard.classify(ctx, err)
	}

	s.committed(id, reviewer, domain.ApplicationStatusApproved)
	return summary, nil
}

// Reject decides a pending application without provisioning anything. A decided
// application is refused before the optional email is compared.
func (s *decisionService) Reject(ctx context.Context, id uuid.UUID, reviewer dto.Reviewer, input dto.RejectRequest, meta dto.DecisionMeta) error {
	if strings.TrimSpace(reviewer.ID) == "" {
		return apperr.New(apperr.ErrUnauthorized, "Not authorized")
	}

	email := helper.NormalizeEmail(input.Email)
	reason := strings.TrimSpace(input.Reason)
	if len([]rune(reason)) > maxReasonLength {
		verr := apperr.NewValidationError()
		verr.Add("reason", "reason cannot be more than 500 characters")
		return verr
	}

	if err := s.guard.preflight(ctx); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		app, err := r.Applications.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !app.Status.CanTransitionTo(domain.ApplicationStatusRejected) {
			return apperr.New(apperr.ErrInvalidTransition, msgAlreadyProcessed)
		}
		if email != "" && email != app.Email {
			verr := apperr.NewValidationError()
			verr.Add("email", "Email does not match the application")
			return verr
		}

		now := s.opts.Now()
		applied, err := r.Applications.MarkDecided(ctx, id, repository.Decision{
			To:         domain.ApplicationStatusRejected,
			ReviewerID: reviewer.ID,
			At:         now,
			Note:       optional(reason),
		})
		if err != nil {
			return err
		}
		if !applied {
			return apperr.New(apperr.ErrInvalidTransition, msgAlreadyProcessed)
		}

		if err := r.Outbox.Enqueue(ctx, &domain.NotificationOutbox{
			ApplicationID: app.ID,
			Kind:          domain.NotificationRejected,
			Recipient:     app.Email,
			ApplicantName: app.Name,
			NextAttemptAt: now,
		}); err != nil {
			return err
		}

		return r.Audits.Record(ctx, &domain.DecisionAudit{
			ActorID:       reviewer.ID,
			Action:        domain.AuditActionReject,
			ApplicationID: app.ID,
			PreviousState: domain.ApplicationStatusPending,
			NewState:      domain.ApplicationStatusRejected,
			Note:          optional(reason),
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
			CreatedAt:     now,
		})
	})
	if err != nil {
		s.log.Info("reject refused",
			zap.String("application_id", id.String()),
			zap.String("reviewer_id", reviewer.ID),
			zap.Error(err),
		)
		return s.guard.classify(ctx, err)
	}

	s.committed(id, reviewer, domain.ApplicationStatusRejected)
	return nil
}

func (s *decisionService) committed(id uuid.UUID, reviewer dto.Reviewer, status domain.ApplicationStatus) {
	s.opts.Metrics.Decided(string(status))
	s.log.Info("application decided",
		zap.String("application_id", id.String()),
		zap.String("reviewer_id", reviewer.ID),
		zap.String("status", string(status)),
	)
	if s.kicker != nil {
		s.kicker.Kick()
	}
}
