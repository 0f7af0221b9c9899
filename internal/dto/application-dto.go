package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitApplicationRequest is the flat registration form. Purpose selects which
// group of fields is read; the other group is ignored.
type SubmitApplicationRequest struct {
	Name         string  `json:"name" example:"Asha Rao"`
	Email        string  `json:"email" example:"asha@example.com"`
	Password     string  `json:"password" example:"s3cret-pass"`
	Phone        string  `json:"phone,omitempty" example:"+919876543210"`
	Purpose      string  `json:"purpose" example:"talent"`
	ProfileImage *string `json:"profileImage,omitempty"`

	// talent
	Role                  string                 `json:"role,omitempty" example:"acting"`
	UserRole              string                 `json:"userRole,omitempty"`
	Category              string                 `json:"category,omitempty"`
	Experience            string                 `json:"experience,omitempty"`
	Skills                []string               `json:"skills,omitempty"`
	Languages             []string               `json:"languages,omitempty"`
	Location              string                 `json:"location,omitempty"`
	HasDisability         bool                   `json:"hasDisability,omitempty"`
	DisabilityType        *string                `json:"disabilityType,omitempty"`
	DisabilityCertificate *string                `json:"disabilityCertificate,omitempty"`
	Bio                   string                 `json:"bio,omitempty"`
	SocialMediaReels      []SocialMediaReelInput `json:"socialMediaReels,omitempty"`

	// professional
	CompanyName  string   `json:"companyName,omitempty"`
	CompanyType  string   `json:"companyType,omitempty"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	CompanySize  string   `json:"companySize,omitempty"`
	Website      string   `json:"website,omitempty"`
	HiringNeeds  []string `json:"hiringNeeds,omitempty"`
	ProjectTypes []string `json:"projectTypes,omitempty"`
}

type SocialMediaReelInput struct {
	ID          string `json:"id" validate:"required"`
	Platform    string `json:"platform" validate:"required,oneof=instagram facebook youtube"`
	URL         string `json:"url" validate:"required,http_url"`
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// BaseInput holds the fields every purpose shares.
type BaseInput struct {
	Name         string  `json:"name" validate:"required,max=50"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=6,max=72"`
	Phone        string  `json:"phone" validate:"omitempty,min=10,max=20"`
	Purpose      string  `json:"purpose" validate:"required,oneof=talent professional"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,http_url"`
}

type TalentInput struct {
	Role                  string                 `json:"role" validate:"required,oneof=production acting"`
	Category              string                 `json:"category" validate:"required,max=100"`
	Experience            string                 `json:"experience" validate:"required,max=100"`
	Skills                []string               `json:"skills" validate:"min=1,dive,required"`
	Languages             []string               `json:"languages" validate:"min=1,dive,required"`
	Location              string                 `json:"location" validate:"required,max=150"`
	HasDisability         bool                   `json:"hasDisability"`
	DisabilityType        *string                `json:"disabilityType" validate:"omitempty,max=150"`
	DisabilityCertificate *string                `json:"disabilityCertificate" validate:"omitempty,http_url"`
	Bio                   string                 `json:"bio" validate:"required,min=50,max=500"`
	SocialMediaReels      []SocialMediaReelInput `json:"socialMediaReels" validate:"omitempty,dive"`
}

type ProfessionalInput struct {
	CompanyName  string   `json:"companyName" validate:"required,min=2,max=150"`
	CompanyType  string   `json:"companyType" validate:"required,oneof=film_studio ott_platform casting_agency production_house other"`
	JobTitle     string   `json:"jobTitle" validate:"required,min=2,max=100"`
	Industry     string   `json:"industry" validate:"required,max=100"`
	CompanySize  string   `json:"companySize" validate:"required,oneof=1-10 11-50 51-200 201-1000 1000+"`
	Website      string   `json:"website" validate:"omitempty,http_url"`
	HiringNeeds  []string `json:"hiringNeeds" validate:"min=1,dive,required"`
	ProjectTypes []string `json:"projectTypes" validate:"min=1,dive,required"`
}

func (r SubmitApplicationRequest) Base() BaseInput {
	return BaseInput{
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		Phone:        r.Phone,
		Purpose:      r.Purpose,
		ProfileImage: r.ProfileImage,
	}
}

// Talent accepts both "role" and the legacy "userRole" field.
func (r SubmitApplicationRequest) Talent() TalentInput {
	role := r.Role
	if role == "" {
		role = r.UserRole
	}
	return TalentInput{
		Role:                  role,
		Category:              r.Category,
		Experience:            r.Experience,
		Skills:                r.Skills,
		Languages:             r.Languages,
		Location:              r.Location,
		HasDisability:         r.HasDisability,
		DisabilityType:        r.DisabilityType,
		DisabilityCertificate: r.DisabilityCertificate,
		Bio:                   r.Bio,
		SocialMediaReels:      r.SocialMediaReels,
	}
}

func (r SubmitApplicationRequest) Professional() ProfessionalInput {
	return ProfessionalInput{
		CompanyName:  r.CompanyName,
		CompanyType:  r.CompanyType,
		JobTitle:     r.JobTitle,
		Industry:     r.Industry,
		CompanySize:  r.CompanySize,
		Website:      r.Website,
		HiringNeeds:  r.HiringNeeds,
		ProjectTypes: r.ProjectTypes,
	}
}

type ApplicationSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Purpose     string    `json:"purpose"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type TalentProfileResponse struct {
	Role                  string                 `json:"role"`
	Category              string                 `json:"category"`
	Experience            string                 `json:"experience"`
	Skills                []string               `json:"skills"`
	Languages             []string               `json:"languages"`
	Location              string                 `json:"location"`
	HasDisability         bool                   `json:"hasDisability"`
	DisabilityType        *string                `json:"disabilityType,omitempty"`
	DisabilityCertificate *string                `json:"disabilityCertificate,omitempty"`
	Bio                   string                 `json:"bio"`
	SocialMediaReels      []SocialMediaReelInput `json:"socialMediaReels"`
}

type ProfessionalProfileResponse struct {
	CompanyName  string   `json:"companyName"`
	CompanyType  string   `json:"companyType"`
	JobTitle     string   `json:"jobTitle"`
	Industry     string   `json:"industry"`
	CompanySize  string   `json:"companySize"`
	Website      *string  `json:"website,omitempty"`
	HiringNeeds  []string `json:"hiringNeeds"`
	ProjectTypes []string `json:"projectTypes"`
}

// ApplicationResponse is the reviewer view of an application. The credential
// hash is never part of it.
type ApplicationResponse struct {
	ID           uuid.UUID                    `json:"id"`
	Name         string                       `json:"name"`
	Email        string                       `json:"email"`
	Phone        *string                      `json:"phone,omitempty"`
	ProfileImage *string                      `json:"profileImage,omitempty"`
	Purpose      string                       `json:"purpose"`
	Status       string                       `json:"status"`
	Talent       *TalentProfileResponse       `json:"talent,omitempty"`
	Professional *ProfessionalProfileResponse `json:"professional,omitempty"`
	AdminNotes   *string                      `json:"adminNotes,omitempty"`
	ReviewedBy   *string                      `json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time                   `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time                    `json:"createdAt"`
	UpdatedAt    time.Time                    `json:"updatedAt"`
}

type ListApplicationsQuery struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
