package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in reporting order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo allows only pending -> approved and pending -> rejected.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s == ApplicationStatusPending &&
		(next == ApplicationStatusApproved || next == ApplicationStatusRejected)
}

type Purpose string

const (
	PurposeTalent       Purpose = "talent"
	PurposeProfessional Purpose = "professional"
)

var ErrUnknownPurpose = errors.New("unknown purpose")

// Payload is the purpose-specific part of an application or account.
// Implemented by TalentProfile and ProfessionalProfile only.
type Payload interface {
	Purpose() Purpose
	isPayload()
}

type TalentRole string

const (
	TalentRoleProduction TalentRole = "production"
	TalentRoleActing     TalentRole = "acting"
)

type TalentProfile struct {
	Role                  TalentRole       `gorm:"type:varchar(20)"`
	Category              string           `gorm:"type:varchar(100)"`
	Experience            string           `gorm:"type:varchar(100)"`
	Skills                StringSet        `gorm:"column:skills"`
	Languages             StringSet        `gorm:"column:languages"`
	Location              string           `gorm:"type:varchar(150)"`
	HasDisability         bool             `gorm:"not null;default:false"`
	DisabilityType        *string          `gorm:"type:varchar(150)"`
	DisabilityCertificate *string          `gorm:"type:text"`
	Bio                   string           `gorm:"type:varchar(500)"`
	SocialMediaReels      SocialMediaReels `gorm:"column:social_media_reels"`
}

func (TalentProfile) Purpose() Purpose { return PurposeTalent }
func (TalentProfile) isPayload()       {}

type CompanyType string

const (
	CompanyTypeFilmStudio      CompanyType = "film_studio"
	CompanyTypeOTTPlatform     CompanyType = "ott_platform"
	CompanyTypeCastingAgency   CompanyType = "casting_agency"
	CompanyTypeProductionHouse CompanyType = "production_house"
	CompanyTypeOther           CompanyType = "other"
)

type ProfessionalProfile struct {
	CompanyName  string      `gorm:"type:varchar(150)"`
	CompanyType  CompanyType `gorm:"type:varchar(30)"`
	JobTitle     string      `gorm:"type:varchar(100)"`
	Industry     string      `gorm:"type:varchar(100)"`
	CompanySize  string      `gorm:"type:varchar(20)"`
	Website      *string     `gorm:"type:text"`
	HiringNeeds  StringSet   `gorm:"column:hiring_needs"`
	ProjectTypes StringSet   `gorm:"column:project_types"`
}

func (ProfessionalProfile) Purpose() Purpose { return PurposeProfessional }
func (ProfessionalProfile) isPayload()       {}

// Application is a registration waiting for, or carrying, a reviewer decision.
// Only the profile selected by Purpose is populated; the other stays zero.
type Application struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(50);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Phone        *string   `gorm:"type:varchar(30)"`
	ProfileImage *string   `gorm:"type:text"`
	Purpose      Purpose   `gorm:"type:varchar(20);not null;index"`

	Talent       TalentProfile       `gorm:"embedded;embeddedPrefix:talent_"`
	Professional ProfessionalProfile `gorm:"embedded;embeddedPrefix:professional_"`

	Status     ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNotes *string           `gorm:"type:text"`
	ReviewedBy *string           `gorm:"type:varchar(100)"`
	ReviewedAt *time.Time

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// Payload returns the populated profile for the application's purpose.
func (a *Application) Payload() (Payload, error) {
	switch a.Purpose {
	case PurposeTalent:
		return a.Talent, nil
	case PurposeProfessional:
		return a.Professional, nil
	}
	return nil, ErrUnknownPurpose
}

// SetPayload stores p and derives Purpose from it, clearing the other variant.
func (a *Application) SetPayload(p Payload) error {
	switch v := p.(type) {
	case TalentProfile:
		a.Purpose = PurposeTalent
		a.Talent = v
		a.Professional = ProfessionalProfile{}
	case ProfessionalProfile:
		a.Purpose = PurposeProfessional
		a.Professional = v
		a.Talent = TalentProfile{}
	default:
		return ErrUnknownPurpose
	}
	return nil
}

func (a *Application) IsPending() bool { return a.Status == ApplicationStatusPending }
