package services

import (
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/dto"
)

func toApplicationResponse(app *domain.Application) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:           app.ID,
		Name:         app.Name,
		Email:        app.Email,
		Phone:        app.Phone,
		ProfileImage: app.ProfileImage,
		Purpose:      string(app.Purpose),
		Status:       string(app.Status),
		AdminNotes:   app.AdminNotes,
		ReviewedBy:   app.ReviewedBy,
		ReviewedAt:   app.ReviewedAt,
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}

	payload, err := app.Payload()
	if err != nil {
		return resp
	}
	switch p := payload.(type) {
	case domain.TalentProfile:
		reels := make([]dto.SocialMediaReelInput, 0, len(p.SocialMediaReels))
		for _, r := range p.SocialMediaReels {
			reels = append(reels, dto.SocialMediaReelInput{
				ID:          r.ID,
				Platform:    string(r.Platform),
				URL:         r.URL,
				Title:       r.Title,
				Description: r.Description,
			})
		}
		resp.Talent = &dto.TalentProfileResponse{
			Role:                  string(p.Role),
			Category:              p.Category,
			Experience:            p.Experience,
			Skills:                nonNil(p.Skills),
			Languages:             nonNil(p.Languages),
			Location:              p.Location,
			HasDisability:         p.HasDisability,
			DisabilityType:        p.DisabilityType,
			DisabilityCertificate: p.DisabilityCertificate,
			Bio:                   p.Bio,
			SocialMediaReels:      reels,
		}
	case domain.ProfessionalProfile:
		resp.Professional = &dto.ProfessionalProfileResponse{
			CompanyName:  p.CompanyName,
			CompanyType:  string(p.CompanyType),
			JobTitle:     p.JobTitle,
			Industry:     p.Industry,
			CompanySize:  p.CompanySize,
			Website:      p.Website,
			HiringNeeds:  nonNil(p.HiringNeeds),
			ProjectTypes: nonNil(p.ProjectTypes),
		}
	}
	return resp
}

func nonNil(s domain.StringSet) []string {
	if s == nil {
		return []string{}
	}
	return s
}
