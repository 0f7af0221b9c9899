package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationApproved NotificationKind = "approved"
	NotificationRejected NotificationKind = "rejected"
)

func (k NotificationKind) Valid() bool {
	return k == NotificationApproved || k == NotificationRejected
}

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// NotificationOutbox is a decision email waiting for delivery. Rows are written in
// the same transaction as the decision and drained by the relay.
type NotificationOutbox struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ApplicationID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Kind          NotificationKind `gorm:"type:varchar(20);not null"`
	Recipient     string           `gorm:"type:varchar(255);not null"`
	ApplicantName string           `gorm:"type:varchar(50);not null"`
	Status        OutboxStatus     `gorm:"type:varchar(20);not null;default:'pending';index:idx_outbox_due,priority:1"`
	Attempts      int              `gorm:"not null;default:0"`
	LastError     *string          `gorm:"type:text"`
	NextAttemptAt time.Time        `gorm:"not null;index:idx_outbox_due,priority:2"`
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
