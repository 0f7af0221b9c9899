package dto

import "github.com/google/uuid"

// Reviewer is the authenticated principal taken from the session token.
type Reviewer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DecisionMeta is request context recorded in the audit trail.
type DecisionMeta struct {
	IPAddress string
	UserAgent string
}

type RejectRequest struct {
	Email  string `json:"email,omitempty" example:"asha@example.com"`
	Reason string `json:"reason,omitempty" example:"incomplete portfolio"`
}

type AccountSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Purpose string    `json:"purpose"`
}

type ApplicationStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
