package services

import (
	"context"
	"strings"
	"time"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/dto"
	"github.com/SundayYogurt/application_service/internal/helper"
	"github.com/SundayYogurt/application_service/internal/interfaces"
	"github.com/SundayYogurt/application_service/internal/metrics"
	"github.com/SundayYogurt/application_service/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type IntakeService interface {
	Submit(ctx context.Context, input dto.SubmitApplicationRequest) (*dto.ApplicationSummary, error)
}

type Options struct {
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
	BcryptCost int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	return o
}

type intakeService struct {
	applications repository.ApplicationRepository
	accounts     repository.AccountRepository
	guard        storageGuard
	opts         Options
	log          *zap.Logger
}

func NewIntakeService(
	applications repository.ApplicationRepository,
	accounts repository.AccountRepository,
	health interfaces.HealthChecker,
	opts Options,
) IntakeService {
	opts = opts.withDefaults()
	return &intakeService{
		applications: applications,
		accounts:     accounts,
		guard:        storageGuard{health: health},
		opts:         opts,
		log:          opts.Logger.Named("intake"),
	}
}

func (s *intakeService) Submit(ctx context.Context, input dto.SubmitApplicationRequest) (*dto.ApplicationSummary, error) {
	input = normalizeSubmission(input)

	payload, err := validateSubmission(input)
	if err != nil {
		return nil, err
	}

	if err := s.guard.preflight(ctx); err != nil {
		return nil, err
	}

	exists, err := s.applications.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, s.guard.classify(ctx, err)
	}
	if exists {
		return nil, apperr.New(apperr.ErrDuplicate, "An application with this email already exists")
	}
	exists, err = s.accounts.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, s.guard.classify(ctx, err)
	}
	if exists {
		return nil, apperr.New(apperr.ErrDuplicate, "User already exists")
	}

	hash, err := helper.HashPassword(input.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, msgServerError, err)
	}

	now := s.opts.Now()
	app := &domain.Application{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        optional(input.Phone),
		ProfileImage: input.ProfileImage,
		Status:       domain.ApplicationStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := app.SetPayload(payload); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, msgServerError, err)
	}

	// the unique index still settles two submissions racing past the checks above
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, s.guard.classify(ctx, err)
	}

	s.opts.Metrics.Submitted(string(app.Purpose))
	s.log.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("purpose", string(app.Purpose)),
	)

	return &dto.ApplicationSummary{
		ID:          app.ID,
		Name:        app.Name,
		Email:       app.Email,
		Purpose:     string(app.Purpose),
		Status:      string(app.Status),
		SubmittedAt: app.CreatedAt,
	}, nil
}

func normalizeSubmission(in dto.SubmitApplicationRequest) dto.SubmitApplicationRequest {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = helper.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Purpose = strings.ToLower(strings.TrimSpace(in.Purpose))
	in.ProfileImage = trimOptional(in.ProfileImage)

	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.UserRole = strings.ToLower(strings.TrimSpace(in.UserRole))
	in.Category = strings.TrimSpace(in.Category)
	in.Experience = strings.TrimSpace(in.Experience)
	in.Skills = domain.NewStringSet(in.Skills...)
	in.Languages = domain.NewStringSet(in.Languages...)
	in.Location = strings.TrimSpace(in.Location)
	in.DisabilityType = trimOptional(in.DisabilityType)
	in.DisabilityCertificate = trimOptional(in.DisabilityCertificate)
	in.Bio = strings.TrimSpace(in.Bio)
	for i := range in.SocialMediaReels {
		r := &in.SocialMediaReels[i]
		r.ID = strings.TrimSpace(r.ID)
		r.Platform = strings.ToLower(strings.TrimSpace(r.Platform))
		r.URL = strings.TrimSpace(r.URL)
		r.Title = strings.TrimSpace(r.Title)
		r.Description = strings.TrimSpace(r.Description)
	}

	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyType = strings.ToLower(strings.TrimSpace(in.CompanyType))
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.Industry = strings.TrimSpace(in.Industry)
	in.CompanySize = strings.TrimSpace(in.CompanySize)
	in.Website = strings.TrimSpace(in.Website)
	in.HiringNeeds = domain.NewStringSet(in.HiringNeeds...)
	in.ProjectTypes = domain.NewStringSet(in.ProjectTypes...)
	return in
}

// validateSubmission reports every violation of the shared fields and of the
// variant selected by purpose, then builds that variant.
func validateSubmission(in dto.SubmitApplicationRequest) (domain.Payload, error) {
	verr := apperr.NewValidationError()
	if err := collectViolations(verr, in.Base()); err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, msgServerError, err)
	}

	var payload domain.Payload
	switch domain.Purpose(in.Purpose) {
	case domain.PurposeTalent:
		t := in.Talent()
		if err := collectViolations(verr, t); err != nil {
			return nil, apperr.Wrap(apperr.ErrInternal, msgServerError, err)
		}
		if t.HasDisability && t.DisabilityType == nil {
			verr.Add("disabilityType", "disabilityType is required when hasDisability is set")
		}
		payload = talentProfile(t)
	case domain.PurposeProfessional:
		p := in.Professional()
		if err := collectViolations(verr, p); err != nil {
			return nil, apperr.Wrap(apperr.ErrInternal, msgServerError, err)
		}
		payload = professionalProfile(p)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return payload, nil
}

func talentProfile(t dto.TalentInput) domain.TalentProfile {
	reels := make(domain.SocialMediaReels, 0, len(t.SocialMediaReels))
	for _, r := range t.SocialMediaReels {
		reels = append(reels, domain.SocialMediaReel{
			ID:          r.ID,
			Platform:    domain.ReelPlatform(r.Platform),
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
		})
	}
	p := domain.TalentProfile{
		Role:                  domain.TalentRole(t.Role),
		Category:              t.Category,
		Experience:            t.Experience,
		Skills:                domain.NewStringSet(t.Skills...),
		Languages:             domain.NewStringSet(t.Languages...),
		Location:              t.Location,
		HasDisability:         t.HasDisability,
		DisabilityCertificate: t.DisabilityCertificate,
		Bio:                   t.Bio,
		SocialMediaReels:      reels,
	}
	if t.HasDisability {
		p.DisabilityType = t.DisabilityType
	}
	return p
}

func professionalProfile(p dto.ProfessionalInput) domain.ProfessionalProfile {
	return domain.ProfessionalProfile{
		CompanyName:  p.CompanyName,
		CompanyType:  domain.CompanyType(p.CompanyType),
		JobTitle:     p.JobTitle,
		Industry:     p.Industry,
		CompanySize:  p.CompanySize,
		Website:      optional(p.Website),
		HiringNeeds:  domain.NewStringSet(p.HiringNeeds...),
		ProjectTypes: domain.NewStringSet(p.ProjectTypes...),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(strings.TrimSpace(*s))
}
