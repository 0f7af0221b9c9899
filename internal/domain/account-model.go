package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AccountRole string

const (
	AccountRoleTalent AccountRole = "talent"
	AccountRoleClient AccountRole = "client"
	AccountRoleAdmin  AccountRole = "admin"
)

// Account is a live identity. Accounts derived from an application keep its id in
// ApplicationID; administrator accounts created out-of-band leave it nil.
type Account struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ApplicationID *uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Name          string      `gorm:"type:varchar(50);not null"`
	Email         string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  string      `gorm:"type:varchar(255);not null"`
	Phone         *string     `gorm:"type:varchar(30)"`
	ProfileImage  *string     `gorm:"type:text"`
	Role          AccountRole `gorm:"type:varchar(20);not null;default:'talent'"`
	Purpose       Purpose     `gorm:"type:varchar(20);not null;index"`

	Talent       TalentProfile       `gorm:"embedded;embeddedPrefix:talent_"`
	Professional ProfessionalProfile `gorm:"embedded;embeddedPrefix:professional_"`

	IsVerified bool `gorm:"not null;default:false"`
	IsActive   bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) Payload() (Payload, error) {
	switch a.Purpose {
	case PurposeTalent:
		return a.Talent, nil
	case PurposeProfessional:
		return a.Professional, nil
	}
	return nil, ErrUnknownPurpose
}

var ErrNotApproved = errors.New("application is not approved")

// NewAccountFromApplication copies an approved application into a new account.
// The stored credential hash is carried over unchanged; it is never re-hashed.
func NewAccountFromApplication(app *Application, id uuid.UUID, now time.Time) (*Account, error) {
	if app == nil {
		return nil, errors.New("nil application")
	}
	if app.Status != ApplicationStatusApproved {
		return nil, ErrNotApproved
	}
	if strings.TrimSpace(app.PasswordHash) == "" {
		return nil, errors.New("application credential hash is missing")
	}

	appID := app.ID
	acc := &Account{
		ID:            id,
		ApplicationID: &appID,
		Name:          app.Name,
		Email:         app.Email,
		PasswordHash:  app.PasswordHash,
		Phone:         app.Phone,
		ProfileImage:  app.ProfileImage,
		Purpose:       app.Purpose,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	payload, err := app.Payload()
	if err != nil {
		return nil, err
	}
	switch p := payload.(type) {
	case TalentProfile:
		acc.Role = AccountRoleTalent
		acc.Talent = p
	case ProfessionalProfile:
		acc.Role = AccountRoleClient
		acc.Professional = p
	default:
		return nil, ErrUnknownPurpose
	}
	return acc, nil
}
