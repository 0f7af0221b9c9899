package dto

// ===== Response envelopes (swagger) =====

type APIError struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Validation failed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type APIMessage struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Application rejected"`
}

type SubmitApplicationResponse struct {
	Success     bool               `json:"success" example:"true"`
	Message     string             `json:"message" example:"Application submitted successfully! Please wait for admin approval."`
	Application ApplicationSummary `json:"application"`
}

type ApproveApplicationResponse struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"Application approved successfully"`
	User    AccountSummary `json:"user"`
}

type ListApplicationsResponse struct {
	Success      bool                  `json:"success" example:"true"`
	Applications []ApplicationResponse `json:"applications"`
}

type GetApplicationResponse struct {
	Success     bool                `json:"success" example:"true"`
	Application ApplicationResponse `json:"application"`
}

type StatsResponse struct {
	Success bool             `json:"success" example:"true"`
	Stats   ApplicationStats `json:"stats"`
}

type UploadResponse struct {
	Success  bool   `json:"success" example:"true"`
	URL      string `json:"url" example:"https://res.cloudinary.com/demo/image/upload/v1/amiable/profile_images/abc.jpg"`
	PublicID string `json:"publicId,omitempty"`
}

type HealthResponse struct {
	Success  bool   `json:"success" example:"true"`
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"connected"`
}
