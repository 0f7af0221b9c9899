package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionApprove AuditAction = "application.approve"
	AuditActionReject  AuditAction = "application.reject"
)

// DecisionAudit records who decided an application, and from which client.
type DecisionAudit struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ActorID       string            `gorm:"type:varchar(100);not null;index"` // reviewer
	Action        AuditAction       `gorm:"type:varchar(100);not null"`
	ApplicationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	PreviousState ApplicationStatus `gorm:"type:varchar(20);not null"`
	NewState      ApplicationStatus `gorm:"type:varchar(20);not null"`
	AccountID     *uuid.UUID        `gorm:"type:uuid"`
	Note          *string           `gorm:"type:varchar(500)"`
	IPAddress     string            `gorm:"type:varchar(64)"`
	UserAgent     string            `gorm:"type:text"`
	CreatedAt     time.Time         `gorm:"autoCreateTime;index"`
}
